package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered guest or host
type User struct {
	gorm.Model
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	GoogleID    string    `gorm:"uniqueIndex;default:null" json:"-"`
	LastLoginAt time.Time `json:"last_login_at"`
}

// Image is an uploaded listing picture
type Image struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Geometry is a GeoJSON point for a listing's location
type Geometry struct {
	Type      string  `json:"type" gorm:"default:'Point'"`
	Longitude float64 `json:"-"`
	Latitude  float64 `json:"-"`
}

// Coordinates returns the point in GeoJSON [lng, lat] order
func (g Geometry) Coordinates() [2]float64 {
	return [2]float64{g.Longitude, g.Latitude}
}

// Listing represents a property that can be reviewed and booked
type Listing struct {
	gorm.Model
	Title       string   `json:"title" gorm:"not null"`
	Description string   `json:"description"`
	Image       Image    `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	Price       float64  `json:"price"`
	Location    string   `json:"location" gorm:"index"`
	Country     string   `json:"country"`
	Geometry    Geometry `json:"geometry" gorm:"embedded;embeddedPrefix:geometry_"`
	OwnerID     uint     `json:"owner_id"`
	Owner       User     `json:"owner" gorm:"foreignKey:OwnerID"`
	Reviews     []Review `json:"reviews,omitempty" gorm:"foreignKey:ListingID"`
}

// Review represents a guest's rating of a listing
type Review struct {
	gorm.Model
	ListingID uint   `json:"listing_id" gorm:"index"`
	AuthorID  uint   `json:"author_id"`
	Author    User   `json:"author" gorm:"foreignKey:AuthorID"`
	Rating    int    `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment   string `json:"comment"`
}
