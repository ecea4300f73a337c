package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Govind-619/Wanderlust/middleware"
	"github.com/Govind-619/Wanderlust/models"
	"github.com/Govind-619/Wanderlust/storage"
	"github.com/Govind-619/Wanderlust/utils"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *Handler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "users/signup.html", utils.View(c, gin.H{"googleEnabled": h.GoogleOAuth != nil}))
}

// Signup handles POST /signup and logs the new user in.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	_ = c.ShouldBind(&req)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	for _, check := range []func() (bool, string){
		func() (bool, string) { return utils.ValidateUsername(req.Username) },
		func() (bool, string) { return utils.ValidateEmail(req.Email) },
		func() (bool, string) { return utils.ValidatePassword(req.Password) },
	} {
		if ok, msg := check(); !ok {
			utils.FlashError(c, msg)
			c.Redirect(http.StatusFound, "/signup")
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	user := &models.User{Username: req.Username, Email: req.Email, Password: hash, LastLoginAt: h.now()}
	err = h.Store.CreateUser(c.Request.Context(), user)
	if errors.Is(err, storage.ErrDuplicate) {
		utils.FlashError(c, "A user with the given username or email is already registered")
		c.Redirect(http.StatusFound, "/signup")
		return
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := middleware.Login(c, user); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.RequestLogger(c).Info().Uint("user_id", user.ID).Msg("user registered")
	utils.FlashSuccess(c, utils.MsgWelcome)
	c.Redirect(http.StatusFound, "/listings")
}

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "users/login.html", utils.View(c, gin.H{"googleEnabled": h.GoogleOAuth != nil}))
}

// authenticate checks a username and password pair.
func (h *Handler) authenticate(c *gin.Context, req loginRequest) (*models.User, bool) {
	user, err := h.Store.GetUserByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			utils.RequestLogger(c).Error().Err(err).Msg("load user for login")
		}
		return nil, false
	}
	if user.Password == "" || !utils.CheckPassword(req.Password, user.Password) {
		return nil, false
	}
	user.LastLoginAt = h.now()
	if err := h.Store.UpdateUser(c.Request.Context(), user); err != nil {
		utils.RequestLogger(c).Error().Err(err).Msg("record last login")
	}
	return user, true
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.FlashError(c, utils.ErrInvalidCredentials)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	user, ok := h.authenticate(c, req)
	if !ok {
		utils.RequestLogger(c).Warn().Str("username", req.Username).Msg("login failed")
		utils.FlashError(c, utils.ErrInvalidCredentials)
		c.Redirect(http.StatusFound, "/login")
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

// Logout handles GET /logout
func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.Logout(c); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.FlashSuccess(c, utils.MsgLoggedOut)
	c.Redirect(http.StatusFound, "/listings")
}

// APILogin handles POST /api/login and returns a bearer token.
func (h *Handler) APILogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "username and password are required")
		return
	}
	user, ok := h.authenticate(c, req)
	if !ok {
		utils.RequestLogger(c).Warn().Str("username", req.Username).Msg("login failed")
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}
	token, err := utils.GenerateToken(user.ID, user.Username, h.JWTSecret)
	if err != nil {
		utils.RequestLogger(c).Error().Err(err).Msg("generate token")
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}
	utils.Success(c, "Login successful", gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "username": user.Username, "email": user.Email},
	})
}
