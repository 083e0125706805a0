package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/burger-storefront/utils"
)

const (
	SessionCookie = "storefront_session"
	SessionHeader = "X-Session-Token"
	sessionIDKey  = "session_id"
)

// Session gives every visitor a signed session id. The token is read from
// the cookie, or from an "Authorization: Bearer" header for API clients; a
// missing or invalid token starts a new session.
func Session(signer *utils.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if token != "" {
			if claims, err := signer.Parse(token); err == nil && claims.SessionID != "" {
				c.Set(sessionIDKey, claims.SessionID)
				c.Next()
				return
			}
		}

		sessionID := uuid.NewString()
		token, err := signer.Issue(sessionID)
		if err != nil {
			utils.Error().Errorf("Error issuing session token: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, err)
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, token, int(signer.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
		c.Header(SessionHeader, token)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the id set by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
