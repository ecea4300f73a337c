package controllers

import (
	"time"

	"github.com/Govind-619/Wanderlust/events"
	"github.com/Govind-619/Wanderlust/geocode"
	"github.com/Govind-619/Wanderlust/idempotency"
	"github.com/Govind-619/Wanderlust/payment"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/uploads"
	"github.com/Govind-619/Wanderlust/utils"
	"golang.org/x/oauth2"
)

// Deps are the collaborators the handlers are built from. Geocoder,
// Idempotency and GoogleOAuth may be nil.
type Deps struct {
	Store       storage.Store
	Geocoder    geocode.Geocoder
	Files       uploads.FileStore
	Issuer      *payment.Issuer
	Verifier    *payment.Verifier
	Idempotency idempotency.Store
	Events      events.Publisher
	Mailer      utils.Mailer
	GoogleOAuth *oauth2.Config

	RazorpayKeyID string
	JWTSecret     string
	MapToken      string
	DevMode       bool
}

type Handler struct {
	Deps

	now   func() time.Time
	async func(func())
}

func NewHandler(d Deps) *Handler {
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if d.Mailer == nil {
		d.Mailer = utils.NopMailer{}
	}
	return &Handler{
		Deps:  d,
		now:   time.Now,
		async: func(f func()) { go f() },
	}
}
