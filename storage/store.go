package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique field is already taken.
	ErrDuplicate = errors.New("record already exists")
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type ListingStore interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	// GetListing preloads the owner and the reviews with their authors.
	GetListing(ctx context.Context, id uint) (*models.Listing, error)
	ListListings(ctx context.Context) ([]models.Listing, error)
	// SearchListings matches location case-insensitively as a substring.
	SearchListings(ctx context.Context, location string) ([]models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	// DeleteListing removes the listing together with its reviews.
	DeleteListing(ctx context.Context, id uint) error
}

type ReviewStore interface {
	AddReview(ctx context.Context, listingID uint, review *models.Review) error
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	DeleteReview(ctx context.Context, listingID, reviewID uint) error
}

// BookingUpdate carries the optional fields written with a status change.
type BookingUpdate struct {
	PaymentID  string
	VerifiedAt *time.Time
}

type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	GetBookingByOrderID(ctx context.Context, orderID string) (*models.Booking, error)
	// TransitionBooking moves a booking from one state to another. It fails
	// with payment.ErrIllegalTransition when the lifecycle refuses the move
	// or the stored state is no longer from.
	TransitionBooking(ctx context.Context, id uint, from, to payment.State, upd BookingUpdate) error
	ListBookingsForListing(ctx context.Context, listingID uint) ([]models.Booking, error)
	ListStaleBookings(ctx context.Context, state payment.State, olderThan time.Time, limit int) ([]models.Booking, error)
}

// Store is everything the web layer persists.
type Store interface {
	UserStore
	ListingStore
	ReviewStore
	BookingStore
}
