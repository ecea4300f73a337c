package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateKey = "oauth_state"

// googleUserInfoURL is a variable so tests can point it at a fake server.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleLogin handles GET /auth/google/login
func (h *Handler) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, h.GoogleOAuth.AuthCodeURL(state))
}

// GoogleCallback handles GET /auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	log := utils.RequestLogger(c)

	session := sessions.Default(c)
	want, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	_ = session.Save()
	if want == "" || c.Query("state") != want {
		utils.FlashError(c, "Google sign-in expired, please try again")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.FlashError(c, "Google sign-in was cancelled")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, err := h.GoogleOAuth.Exchange(ctx, code)
	if err != nil {
		log.Error().Err(err).Msg("google token exchange")
		utils.FlashError(c, "Google sign-in failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	resp, err := h.GoogleOAuth.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		log.Error().Err(err).Msg("google user info")
		utils.FlashError(c, "Google sign-in failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	defer resp.Body.Close()

	var info GoogleUserInfo
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("user info returned %s", resp.Status)
	} else {
		err = json.NewDecoder(resp.Body).Decode(&info)
	}
	if err == nil && (info.ID == "" || info.Email == "") {
		err = errors.New("user info without id or email")
	}
	if err != nil {
		log.Error().Err(err).Msg("google user info")
		utils.FlashError(c, "Google sign-in failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.googleUser(c, info)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	redirect := utils.PopReturnTo(c, "/listings")
	if err := middleware.Login(c, user); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.FlashSuccess(c, utils.MsgWelcomeBack)
	c.Redirect(http.StatusFound, redirect)
}

// googleUser finds the account with this email or creates one. Google
// accounts get no password and can only sign in through Google.
func (h *Handler) googleUser(c *gin.Context, info GoogleUserInfo) (*models.User, error) {
	ctx := c.Request.Context()
	email := strings.ToLower(info.Email)

	user, err := h.Store.GetUserByEmail(ctx, email)
	if err == nil {
		user.LastLoginAt = h.now()
		if user.GoogleID == "" {
			user.GoogleID = info.ID
		}
		if err := h.Store.UpdateUser(ctx, user); err != nil {
			utils.RequestLogger(c).Error().Err(err).Msg("update google user")
		}
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	base := usernameFromEmail(email)
	for i := 0; i < 5; i++ {
		username := base
		if i > 0 {
			username = fmt.Sprintf("%s_%s", base, uuid.New().String()[:4])
		}
		user = &models.User{Username: username, Email: email, GoogleID: info.ID, LastLoginAt: h.now()}
		err = h.Store.CreateUser(ctx, user)
		if !errors.Is(err, storage.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	utils.RequestLogger(c).Info().Uint("user_id", user.ID).Msg("user registered with google")
	return user, nil
}

func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		local = email[:i]
	}
	var b strings.Builder
	for _, r := range local {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if len(name) < 3 {
		name = "user_" + name
	}
	if len(name) > 15 {
		name = name[:15]
	}
	return name
}
