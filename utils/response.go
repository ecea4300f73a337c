package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StandardResponse represents the standard API response structure
type StandardResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a standardized success response
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, StandardResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response
func Error(c *gin.Context, statusCode int, message string, err interface{}) {
	response := StandardResponse{
		Status:  "error",
		Message: message,
	}
	if err != nil {
		response.Data = gin.H{"error": err}
	}
	c.JSON(statusCode, response)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// InternalServerError sends a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string, err interface{}) {
	Error(c, http.StatusInternalServerError, message, err)
}

// RenderError renders the error page.
func RenderError(c *gin.Context, statusCode int, message string) {
	if message == "" {
		message = DefaultErrorMessage
	}
	c.HTML(statusCode, "error.html", gin.H{
		"message":  message,
		"status":   statusCode,
		"currUser": currentUser(c),
	})
}

// HandleError renders err on the error page using the AppError status when
// there is one and 500 otherwise.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= 500 {
			RequestLogger(c).Error().Err(err).Msg(appErr.Message)
		}
		RenderError(c, appErr.Code, appErr.Message)
		return
	}
	RequestLogger(c).Error().Err(err).Msg("unhandled error")
	RenderError(c, http.StatusInternalServerError, DefaultErrorMessage)
}
