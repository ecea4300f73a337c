package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Context keys shared by the middlewares and handlers.
const (
	RequestIDKey = "RequestID"
	UserIDKey    = "user_id"
)

// Logger is the process-wide structured logger. It discards everything
// until InitLogger runs.
var Logger = zerolog.Nop()

// InitLogger writes JSON lines to dir/app-YYYY-MM-DD.log and a readable copy
// to the console.
func InitLogger(dir, level string) error {
	if dir == "" {
		dir = "logs"
	}
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	timestamp := time.Now().Format("2006-01-02")
	file, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("app-%s.log", timestamp)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339
	console := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	Logger = zerolog.New(io.MultiWriter(file, console)).
		Level(lvl).
		With().Timestamp().Str("service", AppName).
		Logger()
	return nil
}

// LogInfo logs an informational message
func LogInfo(format string, v ...interface{}) {
	Logger.Info().Msgf(format, v...)
}

// LogError logs an error message
func LogError(format string, v ...interface{}) {
	Logger.Error().Msgf(format, v...)
}

// LogDebug logs a debug message
func LogDebug(format string, v ...interface{}) {
	Logger.Debug().Msgf(format, v...)
}

// LogRequest logs HTTP request details
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	Logger.Info().
		Str("method", method).
		Str("path", path).
		Str("ip", ip).
		Int("status", status).
		Dur("duration", duration).
		Msg("request")
}

// LogErrorWithStack logs an error with stack trace
func LogErrorWithStack(err error, stack []byte) {
	Logger.Error().Err(err).Bytes("stack", stack).Msg("panic recovered")
}

// RequestLogger returns a logger tagged with the request id and, when
// someone is logged in, their user id.
func RequestLogger(c *gin.Context) *zerolog.Logger {
	ctx := Logger.With()
	if id := c.GetString(RequestIDKey); id != "" {
		ctx = ctx.Str("request_id", id)
	}
	if uid, ok := c.Get(UserIDKey); ok {
		ctx = ctx.Interface("user_id", uid)
	}
	l := ctx.Logger()
	return &l
}
