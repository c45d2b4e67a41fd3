package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/config"
	"github.com/CJPJ007/ar-properties-identity/internal/enrich"
	"github.com/CJPJ007/ar-properties-identity/internal/http/middleware"
	"github.com/CJPJ007/ar-properties-identity/internal/referral"
	"github.com/CJPJ007/ar-properties-identity/internal/session"
	"github.com/CJPJ007/ar-properties-identity/internal/verifier"
)

const (
	homePath  = "/"
	loginPath = "/auth/login"
)

// AuthHandler orchestrates the login, session, callback, and logout
// endpoints.
type AuthHandler struct {
	Verifier  *verifier.Verifier
	Enricher  *enrich.Enricher
	Store     session.Store
	Signer    *session.Signer
	Completer *referral.Completer
	Cfg       config.Config
	Logger    *zap.Logger
}

// NewAuthHandler creates the handler set.
func NewAuthHandler(
	v *verifier.Verifier,
	e *enrich.Enricher,
	store session.Store,
	signer *session.Signer,
	completer *referral.Completer,
	cfg config.Config,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		Verifier:  v,
		Enricher:  e,
		Store:     store,
		Signer:    signer,
		Completer: completer,
		Cfg:       cfg,
		Logger:    logger,
	}
}

// Login verifies a provider assertion, runs the enrichment pipeline, and
// issues the session. Only credential verification can fail the attempt;
// the client sees a generic failure with no provider detail.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Assertion string `json:"assertion" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "error_description": "Assertion required."})
		return
	}

	claims, err := h.Verifier.Verify(c.Request.Context(), req.Assertion)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credential", "error_description": "Authentication failed."})
		return
	}

	token := h.Enricher.Login(c.Request.Context(), claims)

	id := session.NewID()
	if err := h.Store.Save(c.Request.Context(), id, token, h.Cfg.SessionTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not persist session."})
		return
	}

	cookie, err := h.Signer.Sign(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error", "error_description": "Could not issue session."})
		return
	}
	h.setSessionCookie(c, cookie, int(h.Cfg.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, session.Project(token))
}

// Session exposes the client-visible projection of the refreshed token. The
// resolution step already ran in the session middleware.
func (h *AuthHandler) Session(c *gin.Context) {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated", "error_description": "Sign in required."})
		return
	}
	c.JSON(http.StatusOK, session.Project(token))
}

// Callback handles the post-login landing. Unauthenticated visitors are sent
// to login without any side effect. Authenticated visitors with a referral
// code trigger a best-effort completion POST, awaited so the redirect does
// not cancel it, and are then sent home regardless of the outcome.
func (h *AuthHandler) Callback(c *gin.Context) {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	if code := c.Query("ref"); code != "" {
		if err := h.Completer.Complete(c.Request.Context(), token, code); err != nil {
			h.log().Warn("referral completion failed", zap.String("referral_code", code), zap.Error(err))
		}
	}

	c.Redirect(http.StatusFound, homePath)
}

// Logout deletes the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := middleware.GetSessionID(c); ok {
		if err := h.Store.Delete(c.Request.Context(), id); err != nil {
			h.log().Warn("session delete failed", zap.Error(err))
		}
	}
	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Healthz reports liveness.
func (h *AuthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Cfg.SessionCookieName, value, maxAge, "/", "", h.Cfg.SessionCookieSecure, true)
}

func (h *AuthHandler) log() *zap.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return zap.L()
}
