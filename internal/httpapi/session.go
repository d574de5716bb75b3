package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"CaseLawSearch/internal/session"
)

const (
	// SessionHeader carries the session id for non-browser clients.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session id for browsers.
	SessionCookie = "caselaw_session"

	sessionKey = "session"
)

// withSession attaches the caller's session, issuing a new id when needed.
func (h *Handler) withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = cookie
			}
		}

		sess, created := h.sessions.Get(id)
		if created && h.logger != nil {
			h.logger.Debug("session started", "session", sess.ID)
		}

		c.Header(SessionHeader, sess.ID)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
