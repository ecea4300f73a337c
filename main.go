package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/Wanderlust/config"
	"github.com/Govind-619/Wanderlust/controllers"
	"github.com/Govind-619/Wanderlust/events"
	"github.com/Govind-619/Wanderlust/geocode"
	"github.com/Govind-619/Wanderlust/idempotency"
	"github.com/Govind-619/Wanderlust/jobs"
	"github.com/Govind-619/Wanderlust/metrics"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/routes"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/uploads"
	"github.com/Govind-619/Wanderlust/utils"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Initialize logger
	if err := utils.InitLogger(cfg.LogDir, cfg.LogLevel); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.LogError("Failed to connect to database: %v", err)
		log.Fatal("Failed to connect to database:", err)
	}
	store := storage.NewGormStore(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var idem idempotency.Store = idempotency.NewMemoryStore(idempotency.DefaultTTL)
	if cfg.RedisAddr != "" {
		cli, err := idempotency.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("Failed to connect to redis:", err)
		}
		defer cli.Close()
		idem = idempotency.NewRedisStore(cli, idempotency.DefaultTTL)
		utils.LogInfo("Idempotency keys stored in redis at %s", cfg.RedisAddr)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatal("Failed to connect to kafka:", err)
		}
		publisher = kp
		utils.LogInfo("Publishing booking events to kafka topic %s", cfg.KafkaTopic)
	}
	defer publisher.Close()

	var mailer utils.Mailer = utils.NopMailer{}
	if cfg.SMTPHost != "" {
		mailer = utils.NewSMTPMailer(utils.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	var geocoder geocode.Geocoder
	if cfg.MapToken != "" {
		geocoder = geocode.NewMapboxGeocoder(cfg.MapToken)
	} else {
		utils.LogInfo("MAP_TOKEN not set, listings will not be geocoded")
	}

	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	handler := controllers.NewHandler(controllers.Deps{
		Store:    store,
		Geocoder: geocoder,
		Files:    uploads.NewDiskStore(cfg.UploadDir, "/uploads"),
		Issuer: payment.NewIssuer(gateway, payment.IssuerConfig{
			KeyID:    cfg.RazorpayKeyID,
			Currency: cfg.PaymentCurrency,
			Timeout:  cfg.GatewayTimeout,
		}),
		Verifier:      payment.NewVerifier(cfg.RazorpayKeySecret),
		Idempotency:   idem,
		Events:        publisher,
		Mailer:        mailer,
		GoogleOAuth:   config.NewGoogleOAuth(cfg),
		RazorpayKeyID: cfg.RazorpayKeyID,
		JWTSecret:     cfg.JWTSecret,
		MapToken:      cfg.MapToken,
		DevMode:       cfg.IsDevelopment(),
	})

	metrics.MustRegister()
	go jobs.NewBookingExpirer(store, publisher, cfg.OrderTTL, cfg.ExpiryInterval).Start(ctx)

	// Set up router
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(cfg, handler, middleware.NewAuth(store, cfg.JWTSecret)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Graceful shutdown failed: %v", err)
	}
}
