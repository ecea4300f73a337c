package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/payment"
)

// InMemoryStore keeps everything in maps. It backs tests and local runs
// without postgres. Returned records are copies.
type InMemoryStore struct {
	mutex    sync.RWMutex
	nextID   uint
	users    map[uint]*models.User
	listings map[uint]*models.Listing
	reviews  map[uint]*models.Review
	bookings map[uint]*models.Booking
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users:    make(map[uint]*models.User),
		listings: make(map[uint]*models.Listing),
		reviews:  make(map[uint]*models.Review),
		bookings: make(map[uint]*models.Booking),
	}
}

func (s *InMemoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *InMemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return fmt.Errorf("%w: username or email taken", ErrDuplicate)
		}
		if user.GoogleID != "" && u.GoogleID == user.GoogleID {
			return fmt.Errorf("%w: google account already linked", ErrDuplicate)
		}
	}
	user.ID = s.id()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryStore) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *InMemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email == email })
}

func (s *InMemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *InMemoryStore) CreateListing(_ context.Context, listing *models.Listing) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	listing.ID = s.id()
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	cp := *listing
	cp.Owner = models.User{}
	cp.Reviews = nil
	s.listings[listing.ID] = &cp
	return nil
}

// populate fills the associations GetListing promises. Caller holds the lock.
func (s *InMemoryStore) populate(l models.Listing) models.Listing {
	if owner, ok := s.users[l.OwnerID]; ok {
		l.Owner = *owner
	}
	l.Reviews = nil
	for _, r := range s.reviews {
		if r.ListingID != l.ID {
			continue
		}
		rv := *r
		if author, ok := s.users[rv.AuthorID]; ok {
			rv.Author = *author
		}
		l.Reviews = append(l.Reviews, rv)
	}
	sort.Slice(l.Reviews, func(i, j int) bool { return l.Reviews[i].ID < l.Reviews[j].ID })
	return l
}

func (s *InMemoryStore) GetListing(_ context.Context, id uint) (*models.Listing, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := s.populate(*l)
	return &out, nil
}

func (s *InMemoryStore) listWhere(match func(*models.Listing) bool) []models.Listing {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Listing
	for _, l := range s.listings {
		if match(l) {
			out = append(out, *l)
		}
	}
	// newest first, same as the postgres store
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *InMemoryStore) ListListings(_ context.Context) ([]models.Listing, error) {
	return s.listWhere(func(*models.Listing) bool { return true }), nil
}

func (s *InMemoryStore) SearchListings(_ context.Context, location string) ([]models.Listing, error) {
	q := strings.ToLower(location)
	return s.listWhere(func(l *models.Listing) bool {
		return strings.Contains(strings.ToLower(l.Location), q)
	}), nil
}

func (s *InMemoryStore) UpdateListing(_ context.Context, listing *models.Listing) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.listings[listing.ID]; !ok {
		return ErrNotFound
	}
	listing.UpdatedAt = time.Now()
	cp := *listing
	cp.Owner = models.User{}
	cp.Reviews = nil
	s.listings[listing.ID] = &cp
	return nil
}

func (s *InMemoryStore) DeleteListing(_ context.Context, id uint) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.listings[id]; !ok {
		return ErrNotFound
	}
	delete(s.listings, id)
	for rid, r := range s.reviews {
		if r.ListingID == id {
			delete(s.reviews, rid)
		}
	}
	return nil
}

func (s *InMemoryStore) AddReview(_ context.Context, listingID uint, review *models.Review) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.listings[listingID]; !ok {
		return ErrNotFound
	}
	review.ID = s.id()
	review.ListingID = listingID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	cp := *review
	cp.Author = models.User{}
	s.reviews[review.ID] = &cp
	return nil
}

func (s *InMemoryStore) GetReview(_ context.Context, id uint) (*models.Review, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	if author, ok := s.users[cp.AuthorID]; ok {
		cp.Author = *author
	}
	return &cp, nil
}

func (s *InMemoryStore) DeleteReview(_ context.Context, listingID, reviewID uint) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok || r.ListingID != listingID {
		return ErrNotFound
	}
	delete(s.reviews, reviewID)
	return nil
}

func (s *InMemoryStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, b := range s.bookings {
		if b.RazorpayOrderID == booking.RazorpayOrderID || b.Receipt == booking.Receipt {
			return fmt.Errorf("%w: order or receipt already booked", ErrDuplicate)
		}
	}
	booking.ID = s.id()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now()
	}
	booking.UpdatedAt = booking.CreatedAt
	cp := *booking
	cp.Listing = nil
	cp.User = nil
	s.bookings[booking.ID] = &cp
	return nil
}

// withRefs copies a booking and attaches its listing and user. Caller holds the lock.
func (s *InMemoryStore) withRefs(b *models.Booking) *models.Booking {
	cp := *b
	if cp.ListingID != nil {
		if l, ok := s.listings[*cp.ListingID]; ok {
			lc := *l
			cp.Listing = &lc
		}
	}
	if cp.UserID != nil {
		if u, ok := s.users[*cp.UserID]; ok {
			uc := *u
			cp.User = &uc
		}
	}
	return &cp
}

func (s *InMemoryStore) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.withRefs(b), nil
}

func (s *InMemoryStore) GetBookingByOrderID(_ context.Context, orderID string) (*models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, b := range s.bookings {
		if b.RazorpayOrderID == orderID {
			return s.withRefs(b), nil
		}
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) TransitionBooking(_ context.Context, id uint, from, to payment.State, upd BookingUpdate) error {
	if err := payment.CheckTransition(from, to); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return ErrNotFound
	}
	if b.Status != from {
		return fmt.Errorf("%w: booking %d is no longer %s", payment.ErrIllegalTransition, id, from)
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	if upd.PaymentID != "" {
		b.RazorpayPaymentID = upd.PaymentID
	}
	if upd.VerifiedAt != nil {
		t := *upd.VerifiedAt
		b.VerifiedAt = &t
	}
	return nil
}

func (s *InMemoryStore) ListBookingsForListing(_ context.Context, listingID uint) ([]models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.ListingID != nil && *b.ListingID == listingID {
			out = append(out, *s.withRefs(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListStaleBookings(_ context.Context, state payment.State, olderThan time.Time, limit int) ([]models.Booking, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == state && b.CreatedAt.Before(olderThan) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
