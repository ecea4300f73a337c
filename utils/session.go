package utils

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	CurrentUserKey = "currUser"

	flashSuccess = "success"
	flashError   = "error"
	returnToKey  = "redirectUrl"
)

// FlashSuccess queues a success message for the next rendered page.
func FlashSuccess(c *gin.Context, msg string) {
	addFlash(c, msg, flashSuccess)
}

// FlashError queues an error message for the next rendered page.
func FlashError(c *gin.Context, msg string) {
	addFlash(c, msg, flashError)
}

func addFlash(c *gin.Context, msg, kind string) {
	session := sessions.Default(c)
	session.AddFlash(msg, kind)
	if err := session.Save(); err != nil {
		LogError("Failed to save flash: %v", err)
	}
}

// Flashes pops the pending messages of both kinds.
func Flashes(c *gin.Context) (success, failure []string) {
	session := sessions.Default(c)
	success = toStrings(session.Flashes(flashSuccess))
	failure = toStrings(session.Flashes(flashError))
	if len(success)+len(failure) > 0 {
		if err := session.Save(); err != nil {
			LogError("Failed to save session after reading flashes: %v", err)
		}
	}
	return success, failure
}

func toStrings(vs []interface{}) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SaveReturnTo remembers where to send the user after login.
func SaveReturnTo(c *gin.Context, url string) {
	session := sessions.Default(c)
	session.Set(returnToKey, url)
	if err := session.Save(); err != nil {
		LogError("Failed to save return url: %v", err)
	}
}

// PopReturnTo returns the remembered URL, or fallback.
func PopReturnTo(c *gin.Context, fallback string) string {
	session := sessions.Default(c)
	url, _ := session.Get(returnToKey).(string)
	if url == "" {
		return fallback
	}
	session.Delete(returnToKey)
	if err := session.Save(); err != nil {
		LogError("Failed to clear return url: %v", err)
	}
	return url
}

func currentUser(c *gin.Context) interface{} {
	u, _ := c.Get(CurrentUserKey)
	return u
}

// View builds template data with the flash messages and the current user.
func View(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	success, failure := Flashes(c)
	data["success"] = success
	data["error"] = failure
	data["currUser"] = currentUser(c)
	return data
}
