package models

import (
	"time"

	"github.com/Govind-619/Wanderlust/payment"
)

// Booking tracks one gateway order through the payment lifecycle.
// ListingID and UserID are optional: anonymous checkouts are allowed.
type Booking struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	ListingID         *uint         `json:"listing_id,omitempty" gorm:"index"`
	Listing           *Listing      `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
	UserID            *uint         `json:"user_id,omitempty" gorm:"index"`
	User              *User         `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RazorpayOrderID   string        `json:"razorpay_order_id" gorm:"uniqueIndex"`
	RazorpayPaymentID string        `json:"razorpay_payment_id,omitempty"`
	Receipt           string        `json:"receipt" gorm:"uniqueIndex"`
	Amount            int64         `json:"amount"` // minor units
	Currency          string        `json:"currency"`
	Status            payment.State `json:"status" gorm:"index"`
	IdempotencyKey    string        `json:"-" gorm:"index"`
	VerifiedAt        *time.Time    `json:"verified_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// AmountDisplay renders the amount in major units
func (b Booking) AmountDisplay() string {
	return payment.FormatMinor(b.Amount)
}
