package routes

import (
	"net/http"

	"github.com/Govind-619/Wanderlust/config"
	"github.com/Govind-619/Wanderlust/controllers"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	sessionName   = "wanderlust"
	sessionMaxAge = 7 * 24 * 60 * 60 // one week
)

// SetupRouter builds the engine with every route. The returned handler
// applies method override before gin picks a route.
func SetupRouter(cfg *config.Config, h *controllers.Handler, auth *middleware.Auth) http.Handler {
	return utils.MethodOverride(NewEngine(cfg, h, auth))
}

// NewEngine is SetupRouter without the method override wrapper.
func NewEngine(cfg *config.Config, h *controllers.Handler, auth *middleware.Auth) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   sessionMaxAge,
		Path:     "/",
		Secure:   !cfg.IsDevelopment(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(utils.CORSMiddleware())
	router.Use(sessions.Sessions(sessionName, store))
	router.Use(auth.LoadUser())

	router.LoadHTMLGlob(cfg.ViewsDir + "/*/*.html")
	router.Static("/public", cfg.PublicDir)
	router.Static("/uploads", cfg.UploadDir)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/listings")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	initListingRoutes(router, h, auth)
	initPaymentRoutes(router, h, cfg)
	initUserRoutes(router, h)

	router.NoRoute(func(c *gin.Context) {
		if utils.WantsJSON(c) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Page Not Found"})
			return
		}
		utils.RenderError(c, http.StatusNotFound, "Page Not Found")
	})
	return router
}
