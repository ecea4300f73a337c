package controllers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Govind-619/Wanderlust/events"
	"github.com/Govind-619/Wanderlust/geocode"
	"github.com/Govind-619/Wanderlust/idempotency"
	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/uploads"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const (
	testKeyID  = "rzp_test_key"
	testSecret = "testsecret"
	testJWT    = "jwt-secret"
)

const testTemplates = `
{{define "error.html"}}{{.status}} {{.message}}{{end}}
{{define "listings/index.html"}}{{range .success}}flash={{.}};{{end}}{{range .allListings}}{{.Title}};{{end}}{{end}}
{{define "listings/show.html"}}{{range .success}}flash={{.}};{{end}}{{.listing.Title}} owner={{.isOwner}} map={{.mapToken}}{{range .listing.Reviews}} review={{.Comment}}{{end}}{{end}}
{{define "listings/new.html"}}new{{end}}
{{define "listings/edit.html"}}edit {{.listing.Title}}{{end}}
{{define "listings/booking.html"}}key={{.key}} currency={{.currency}}{{with .listing}} listing={{.Title}}{{end}}{{end}}
{{define "users/signup.html"}}signup{{range .error}} error={{.}}{{end}}{{end}}
{{define "users/login.html"}}login{{range .error}} error={{.}}{{end}}{{end}}
`

type fakeGateway struct {
	mu     sync.Mutex
	calls  int
	err    error
	onCall func()
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.onCall != nil {
		g.onCall()
	}
	if g.err != nil {
		return nil, g.err
	}
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.calls),
		Entity:   "order",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// ctxBoundStore fails once the caller's context is done, as go-redis does.
type ctxBoundStore struct {
	idempotency.Store
}

func (s ctxBoundStore) Begin(ctx context.Context, key string) (idempotency.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return idempotency.Entry{}, false, err
	}
	return s.Store.Begin(ctx, key)
}

func (s ctxBoundStore) Complete(ctx context.Context, key string, code int, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Complete(ctx, key, code, body)
}

func (s ctxBoundStore) Abort(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.Abort(ctx, key)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type captureMailer struct {
	sent []utils.BookingMail
}

func (m *captureMailer) SendBookingConfirmation(b utils.BookingMail) error {
	m.sent = append(m.sent, b)
	return nil
}

type fakeGeocoder struct {
	err    error
	points map[string]geocode.Point
}

func (g *fakeGeocoder) Forward(_ context.Context, query string) (geocode.Point, error) {
	if g.err != nil {
		return geocode.Point{}, g.err
	}
	if p, ok := g.points[query]; ok {
		return p, nil
	}
	return geocode.Point{}, geocode.ErrNoResults
}

type memoryFiles struct {
	saved   []string
	deleted []string
}

func (f *memoryFiles) Save(_ context.Context, file *multipart.FileHeader) (uploads.Asset, error) {
	if err := uploads.ValidateImageFile(file); err != nil {
		return uploads.Asset{}, err
	}
	name := fmt.Sprintf("img%d-%s", len(f.saved)+1, file.Filename)
	f.saved = append(f.saved, name)
	return uploads.Asset{URL: "/uploads/" + name, Filename: name}, nil
}

func (f *memoryFiles) Delete(_ context.Context, filename string) error {
	f.deleted = append(f.deleted, filename)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	handler  *Handler
	store    *storage.InMemoryStore
	gateway  *fakeGateway
	events   *recordingPublisher
	mailer   *captureMailer
	files    *memoryFiles
	idem     *idempotency.MemoryStore
	verifier *payment.Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		store:    storage.NewInMemoryStore(),
		gateway:  &fakeGateway{},
		events:   &recordingPublisher{},
		mailer:   &captureMailer{},
		files:    &memoryFiles{},
		idem:     idempotency.NewMemoryStore(idempotency.DefaultTTL),
		verifier: payment.NewVerifier(testSecret),
	}
	env.handler = NewHandler(Deps{
		Store: env.store,
		Geocoder: &fakeGeocoder{points: map[string]geocode.Point{
			"Goa":    {Type: "Point", Coordinates: [2]float64{73.8, 15.3}},
			"Manali": {Type: "Point", Coordinates: [2]float64{77.1, 32.2}},
		}},
		Files:         env.files,
		Issuer:        payment.NewIssuer(env.gateway, payment.IssuerConfig{KeyID: testKeyID, Currency: "INR"}),
		Verifier:      env.verifier,
		Idempotency:   env.idem,
		Events:        env.events,
		Mailer:        env.mailer,
		RazorpayKeyID: testKeyID,
		JWTSecret:     testJWT,
		MapToken:      "map-token",
	})
	env.handler.async = func(f func()) { f() }

	auth := middleware.NewAuth(env.store, testJWT)
	h := env.handler

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("").Parse(testTemplates)))
	r.Use(sessions.Sessions("session", cookie.NewStore([]byte("session-secret"))))
	r.Use(auth.LoadUser())

	r.GET("/login-as/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		user, err := env.store.GetUserByID(c.Request.Context(), uint(id))
		require.NoError(t, err)
		require.NoError(t, middleware.Login(c, user))
		c.Status(http.StatusOK)
	})

	r.POST("/create-order", h.CreateOrder)
	r.POST("/verify-payment", h.VerifyPayment)
	r.GET("/booking", h.BookingPage)
	r.GET("/bookings/:id/receipt", middleware.RequireLogin(), h.BookingReceipt)

	r.GET("/listings", h.ListListings)
	r.GET("/listings/new", middleware.RequireLogin(), h.NewListingForm)
	r.POST("/listings", middleware.RequireLogin(), h.CreateListing)
	r.GET("/listings/:id", h.ShowListing)
	r.GET("/listings/:id/edit", middleware.RequireLogin(), auth.IsOwner(), h.EditListingForm)
	r.PUT("/listings/:id", middleware.RequireLogin(), auth.IsOwner(), h.UpdateListing)
	r.DELETE("/listings/:id", middleware.RequireLogin(), auth.IsOwner(), h.DeleteListing)
	r.GET("/listings/:id/bookings/export", middleware.RequireLogin(), auth.IsOwner(), h.ExportBookings)
	r.POST("/listings/:id/reviews", middleware.RequireLogin(), h.CreateReview)
	r.DELETE("/listings/:id/reviews/:reviewId", middleware.RequireLogin(), auth.IsReviewAuthor(), h.DeleteReview)

	r.GET("/signup", h.SignupForm)
	r.POST("/signup", h.Signup)
	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.POST("/api/login", h.APILogin)

	env.router = r
	return env
}

func (e *testEnv) createUser(t *testing.T, name, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &models.User{Username: name, Email: name + "@example.com", Password: hash}
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) createListing(t *testing.T, owner *models.User, title string) *models.Listing {
	t.Helper()
	l := &models.Listing{Title: title, Description: "d", Price: 1500, Location: "Goa", Country: "India", OwnerID: owner.ID}
	require.NoError(t, e.store.CreateListing(context.Background(), l))
	return l
}

// client keeps the latest session cookie between requests.
type client struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client() *client {
	return &client{env: e, cookies: make(map[string]*http.Cookie)}
}

func (e *testEnv) loggedIn(t *testing.T, user *models.User) *client {
	t.Helper()
	cl := e.client()
	w := cl.do(httptest.NewRequest(http.MethodGet, "/login-as/"+strconv.Itoa(int(user.ID)), nil))
	require.Equal(t, http.StatusOK, w.Code)
	return cl
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range cl.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	cl.env.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		cl.cookies[c.Name] = c
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) form(method, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) json(path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return cl.do(req)
}

var errGatewayDown = errors.New("gateway unavailable")
