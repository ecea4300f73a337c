package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
	"gorm.io/gorm"
)

// GormStore persists records in postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open connection. The connection should be opened
// with TranslateError so unique violations surface as ErrDuplicate.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// likePattern escapes LIKE wildcards so the query matches literally.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Save(user).Error)
}

func (s *GormStore) CreateListing(ctx context.Context, listing *models.Listing) error {
	return translate(s.db.WithContext(ctx).Omit("Owner", "Reviews").Create(listing).Error)
}

func (s *GormStore) GetListing(ctx context.Context, id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Reviews.Author").
		First(&listing, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (s *GormStore) ListListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, translate(err)
	}
	return listings, nil
}

func (s *GormStore) SearchListings(ctx context.Context, location string) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.WithContext(ctx).
		Where("location ILIKE ?", likePattern(location)).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, translate(err)
	}
	return listings, nil
}

func (s *GormStore) UpdateListing(ctx context.Context, listing *models.Listing) error {
	return translate(s.db.WithContext(ctx).Omit("Owner", "Reviews").Save(listing).Error)
}

func (s *GormStore) DeleteListing(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Listing{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return translate(tx.Where("listing_id = ?", id).Delete(&models.Review{}).Error)
	})
}

func (s *GormStore) AddReview(ctx context.Context, listingID uint, review *models.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Listing{}).Where("id = ?", listingID).Count(&count).Error; err != nil {
			return translate(err)
		}
		if count == 0 {
			return ErrNotFound
		}
		review.ListingID = listingID
		return translate(tx.Omit("Author").Create(review).Error)
	})
}

func (s *GormStore) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.WithContext(ctx).Preload("Author").First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

func (s *GormStore) DeleteReview(ctx context.Context, listingID, reviewID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND listing_id = ?", reviewID, listingID).Delete(&models.Review{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return translate(s.db.WithContext(ctx).Omit("Listing", "User").Create(booking).Error)
}

func (s *GormStore) GetBooking(ctx context.Context, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.WithContext(ctx).Preload("Listing").Preload("User").First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (s *GormStore) GetBookingByOrderID(ctx context.Context, orderID string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Preload("Listing").Preload("User").
		Where("razorpay_order_id = ?", orderID).First(&booking).Error
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

func (s *GormStore) TransitionBooking(ctx context.Context, id uint, from, to payment.State, upd BookingUpdate) error {
	if err := payment.CheckTransition(from, to); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if upd.PaymentID != "" {
		fields["razorpay_payment_id"] = upd.PaymentID
	}
	if upd.VerifiedAt != nil {
		fields["verified_at"] = *upd.VerifiedAt
	}

	// The status guard makes concurrent transitions of one booking race-free.
	res := s.db.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return translate(err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return fmt.Errorf("%w: booking %d is no longer %s", payment.ErrIllegalTransition, id, from)
	}
	return nil
}

func (s *GormStore) ListBookingsForListing(ctx context.Context, listingID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).Preload("User").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}

func (s *GormStore) ListStaleBookings(ctx context.Context, state payment.State, olderThan time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", state, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, translate(err)
	}
	return bookings, nil
}
