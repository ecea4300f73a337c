package routes

import (
	"github.com/Govind-619/Wanderlust/controllers"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes signup, login and the Google sign-in flow
func initUserRoutes(router *gin.Engine, h *controllers.Handler) {
	router.GET("/signup", h.SignupForm)
	router.POST("/signup", h.Signup)
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)

	router.POST("/api/login", h.APILogin)

	if h.GoogleOAuth != nil {
		auth := router.Group("/auth/google")
		auth.GET("/login", h.GoogleLogin)
		auth.GET("/callback", h.GoogleCallback)
	}
}
