package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserKey = "user_id"
	listingKey     = "listing"
)

// Auth resolves the current user and guards owner-only routes.
type Auth struct {
	store     storage.Store
	jwtSecret string
}

func NewAuth(store storage.Store, jwtSecret string) *Auth {
	return &Auth{store: store, jwtSecret: jwtSecret}
}

// LoadUser puts the logged-in user, if any, into the context. The session
// cookie is checked first, then an Authorization: Bearer token.
func (a *Auth) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint

		session := sessions.Default(c)
		if id, ok := session.Get(sessionUserKey).(uint); ok {
			userID = id
		} else if token, ok := bearerToken(c); ok {
			id, err := utils.ValidateToken(token, a.jwtSecret)
			if err != nil {
				utils.RequestLogger(c).Debug().Err(err).Msg("invalid bearer token")
			}
			userID = id
		}

		if userID != 0 {
			user, err := a.store.GetUserByID(c.Request.Context(), userID)
			switch {
			case err == nil:
				c.Set(utils.CurrentUserKey, user)
				c.Set(utils.UserIDKey, user.ID)
			case errors.Is(err, storage.ErrNotFound):
				// account removed since the cookie was issued
				session.Delete(sessionUserKey)
				_ = session.Save()
			default:
				utils.RequestLogger(c).Error().Err(err).Uint("user_id", userID).Msg("load user")
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, token != ""
}

// Login starts a session for user.
func Login(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	c.Set(utils.CurrentUserKey, user)
	c.Set(utils.UserIDKey, user.ID)
	return session.Save()
}

// Logout ends the session.
func Logout(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionUserKey)
	c.Set(utils.CurrentUserKey, nil)
	return session.Save()
}

func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(utils.CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func CurrentUserID(c *gin.Context) (uint, bool) {
	if user := CurrentUser(c); user != nil {
		return user.ID, true
	}
	return 0, false
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}

// RequireLogin sends anonymous visitors to the login page, remembering
// where they were going. API callers get a 401 instead.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}
		if utils.WantsJSON(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": utils.ErrLoginRequired})
			return
		}
		if c.Request.Method == http.MethodGet {
			utils.SaveReturnTo(c, c.Request.URL.RequestURI())
		}
		utils.FlashError(c, utils.ErrLoginRequired)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.NotFoundError(utils.ErrListingNotFound, err)
	}
	return uint(id), nil
}

// IsOwner lets only the listing's owner through. The loaded listing is left
// in the context for the handler.
func (a *Auth) IsOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := ParamID(c, "id")
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}
		listing, err := a.store.GetListing(c.Request.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			utils.HandleError(c, utils.NotFoundError(utils.ErrListingNotFound, err))
			c.Abort()
			return
		}
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		uid, _ := CurrentUserID(c)
		if listing.OwnerID != uid {
			utils.FlashError(c, utils.ErrNotOwner)
			c.Redirect(http.StatusFound, "/listings/"+c.Param("id"))
			c.Abort()
			return
		}
		c.Set(listingKey, listing)
		c.Next()
	}
}

// IsReviewAuthor lets only the review's author delete it.
func (a *Auth) IsReviewAuthor() gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := ParamID(c, "reviewId")
		if err != nil {
			utils.HandleError(c, utils.NotFoundError("Review not found", err))
			c.Abort()
			return
		}
		review, err := a.store.GetReview(c.Request.Context(), reviewID)
		if errors.Is(err, storage.ErrNotFound) {
			utils.HandleError(c, utils.NotFoundError("Review not found", err))
			c.Abort()
			return
		}
		if err != nil {
			utils.HandleError(c, err)
			c.Abort()
			return
		}

		uid, _ := CurrentUserID(c)
		if review.AuthorID != uid {
			utils.FlashError(c, utils.ErrNotReviewAuthor)
			c.Redirect(http.StatusFound, "/listings/"+c.Param("id"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadedListing returns the listing IsOwner fetched.
func LoadedListing(c *gin.Context) (*models.Listing, bool) {
	v, ok := c.Get(listingKey)
	if !ok {
		return nil, false
	}
	l, ok := v.(*models.Listing)
	return l, ok
}
