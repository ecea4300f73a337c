package utils

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func (e *FieldValidationErrors) add(field, msg string) {
	*e = append(*e, FieldValidationError{Field: field, Message: msg})
}

func (e FieldValidationErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ListingInput is the listing[...] form.
type ListingInput struct {
	Title       string `form:"listing[title]"`
	Description string `form:"listing[description]"`
	Price       string `form:"listing[price]"`
	Location    string `form:"listing[location]"`
	Country     string `form:"listing[country]"`
}

// Validate checks a new listing. Every field is required and the price must
// be a non-negative number.
func (in *ListingInput) Validate() (float64, error) {
	var errs FieldValidationErrors
	in.trim()
	required := []struct{ field, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"location", in.Location},
		{"country", in.Country},
	}
	for _, r := range required {
		if r.value == "" {
			errs.add(r.field, "is required")
		}
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		errs.add("price", err.Error())
	}
	return price, errs.orNil()
}

// ValidatePartial checks an update where empty fields keep their old value.
func (in *ListingInput) ValidatePartial() (price float64, hasPrice bool, err error) {
	in.trim()
	if in.Price == "" {
		return 0, false, nil
	}
	price, perr := parsePrice(in.Price)
	if perr != nil {
		return 0, false, FieldValidationErrors{{Field: "price", Message: perr.Error()}}
	}
	return price, true, nil
}

func (in *ListingInput) trim() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Price = strings.TrimSpace(in.Price)
	in.Location = strings.TrimSpace(in.Location)
	in.Country = strings.TrimSpace(in.Country)
}

func parsePrice(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("is required")
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(p) || p < 0 || p > 1e12 {
		return 0, fmt.Errorf("must be a number of at least 0")
	}
	return p, nil
}

// ReviewInput is the review[...] form.
type ReviewInput struct {
	Rating  string `form:"review[rating]"`
	Comment string `form:"review[comment]"`
}

func (in *ReviewInput) Validate() (int, error) {
	var errs FieldValidationErrors
	in.Comment = strings.TrimSpace(in.Comment)

	rating, err := strconv.Atoi(strings.TrimSpace(in.Rating))
	if err != nil || ValidateRating(rating) != nil {
		errs.add("rating", fmt.Sprintf("must be between %d and %d", MinRating, MaxRating))
	}
	if in.Comment == "" {
		errs.add("comment", "is required")
	}
	return rating, errs.orNil()
}

// ValidateUsername checks if the username meets the requirements
func ValidateUsername(username string) (bool, string) {
	if len(username) < 3 {
		return false, "Username must be at least 3 characters long"
	}
	if len(username) > 20 {
		return false, "Username must not exceed 20 characters"
	}
	if !usernameRegex.MatchString(username) {
		return false, "Username can only contain letters, numbers, and underscores"
	}
	return true, ""
}

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks the minimum length
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength)
	}
	return true, ""
}

// ValidateRating validates a review rating
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return fmt.Errorf("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}
