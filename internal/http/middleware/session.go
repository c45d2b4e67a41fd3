package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
	"github.com/CJPJ007/ar-properties-identity/internal/enrich"
	"github.com/CJPJ007/ar-properties-identity/internal/session"
)

const (
	sessionIDKey    = "sessionID"
	sessionTokenKey = "sessionToken"
)

// Session loads the server-held session token referenced by the request
// cookie. On every hit it re-runs the enricher's resolution step before
// handlers project fields to the client, so backend-authoritative data wins
// on each request, not just at login.
type Session struct {
	Store      session.Store
	Signer     *session.Signer
	Enricher   *enrich.Enricher
	CookieName string
	TTL        time.Duration
	Logger     *zap.Logger
}

// Load attaches the session to the context when present. Requests without a
// valid session continue unauthenticated; handlers decide what that means.
func (m *Session) Load(c *gin.Context) {
	raw, err := c.Cookie(m.CookieName)
	if err != nil || raw == "" {
		c.Next()
		return
	}

	id, err := m.Signer.Verify(raw)
	if err != nil {
		c.Next()
		return
	}

	token, err := m.Store.Get(c.Request.Context(), id)
	if err != nil {
		m.log().Warn("session load failed", zap.Error(err))
		c.Next()
		return
	}
	if token == nil {
		c.Next()
		return
	}

	refreshed, err := m.Enricher.Refresh(c.Request.Context(), *token)
	if err != nil {
		var enrichErr *domain.EnrichmentError
		if errors.As(err, &enrichErr) {
			m.log().Warn("session enrichment failed", zap.String("step", enrichErr.Step), zap.Error(enrichErr.Err))
		} else {
			m.log().Warn("session enrichment failed", zap.Error(err))
		}
	}
	if refreshed != *token {
		if err := m.Store.Save(c.Request.Context(), id, refreshed, m.TTL); err != nil {
			m.log().Warn("session save failed", zap.Error(err))
		}
	}

	c.Set(sessionIDKey, id)
	c.Set(sessionTokenKey, refreshed)
	c.Next()
}

// Require aborts with 401 when no session is attached. Must run after Load.
func (m *Session) Require(c *gin.Context) {
	if _, ok := GetSessionToken(c); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":             "unauthenticated",
			"error_description": "Sign in required.",
		})
		return
	}
	c.Next()
}

// GetSessionID returns the session id attached by Load.
func GetSessionID(c *gin.Context) (string, bool) {
	value, ok := c.Get(sessionIDKey)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}

// GetSessionToken returns the refreshed token attached by Load.
func GetSessionToken(c *gin.Context) (domain.SessionToken, bool) {
	value, ok := c.Get(sessionTokenKey)
	if !ok {
		return domain.SessionToken{}, false
	}
	token, ok := value.(domain.SessionToken)
	return token, ok
}

func (m *Session) log() *zap.Logger {
	if m != nil && m.Logger != nil {
		return m.Logger
	}
	return zap.L()
}
