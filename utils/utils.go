package utils

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendJSONError sends a standardized JSON error response and logs the
// internal error. For 5xx statuses the public message stays generic while
// the actual error is only logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', path='%s'",
			statusCode, publicMsg, internalError, c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError {
		if publicMsg == "" || (internalError != nil && publicMsg == internalError.Error()) {
			publicMsg = "An unexpected error occurred. Please try again later."
		}
	}

	c.AbortWithStatusJSON(statusCode, gin.H{"error": publicMsg})
}

// GenerateRespondentID creates an opaque identifier for respondents that
// arrive without one from the channel adapter.
func GenerateRespondentID() string {
	return "resp_" + uuid.NewString()
}

// FormatTime renders a timestamp the way log lines and exports expect it.
func FormatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
