package utils

// Application constants
const (
	AppName = "Wanderlust"

	DefaultPort = "8080"

	// JWT token lifetime for the JSON login
	JWTExpirationHours = 24

	MinPasswordLength = 6

	MinRating = 1
	MaxRating = 5
)

// Error messages
const (
	ErrInvalidCredentials = "Invalid username or password"
	ErrLoginRequired      = "You must be logged in"
	ErrNotOwner           = "You are not the owner of this listing"
	ErrNotReviewAuthor    = "You are not the author of this review"
	ErrListingNotFound    = "Listing you requested does not exist!"
	ErrInvalidData        = "Send valid data"
	ErrInternalServer     = "Internal server error"

	DefaultErrorMessage = "Oh no, something went wrong!"
)

// Flash messages
const (
	MsgListingCreated = "New Listing Created"
	MsgListingUpdated = "Listing updated successfully!"
	MsgListingDeleted = "Listing Deleted!!"
	MsgReviewCreated  = "New Review Created"
	MsgReviewDeleted  = "Review Deleted"
	MsgWelcome        = "Welcome to Wanderlust!"
	MsgWelcomeBack    = "Welcome back to Wanderlust!"
	MsgLoggedOut      = "You are logged out!"
)
