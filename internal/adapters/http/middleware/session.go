package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-generator/internal/platform/logging"
)

// ContextKeySessionID is the gin context key for the page session ID.
const ContextKeySessionID = "session_id"

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session returns middleware that identifies the browser by a cookie
// holding a UUID. A missing or malformed cookie gets a fresh ID. The cookie
// is refreshed on every response so its lifetime slides with the cached
// session state.
func Session(cfg SessionConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "quote_session"
	}

	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}

		c.Set(ContextKeySessionID, id)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, id, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)

		c.Request = c.Request.WithContext(logging.WithSessionID(c.Request.Context(), id))

		c.Next()
	}
}

// GetSessionID returns the session ID set by Session, or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
