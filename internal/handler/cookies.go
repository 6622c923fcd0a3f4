package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studiokit/backend/internal/config"
	"github.com/studiokit/backend/internal/model"
)

const (
	// AccessCookieName carries the access token on every authenticated call.
	AccessCookieName = "Authentication"
	// RefreshCookieName carries the refresh token; read only by /auth/refresh.
	RefreshCookieName = "Refresh"
)

// CookieBinder writes and clears the two session cookies. Both are HttpOnly
// with SameSite=Lax on path /; Max-Age mirrors the token lifetime.
type CookieBinder struct {
	accessMaxAge  int
	refreshMaxAge int
	secure        bool
}

func NewCookieBinder(cfg config.AuthConfig) CookieBinder {
	return CookieBinder{
		accessMaxAge:  int(cfg.AccessTTL.Seconds()),
		refreshMaxAge: int(cfg.RefreshTTL.Seconds()),
		secure:        cfg.CookieSecure,
	}
}

func (b CookieBinder) Set(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, pair.AccessToken, b.accessMaxAge, "/", "", b.secure, true)
	c.SetCookie(RefreshCookieName, pair.RefreshToken, b.refreshMaxAge, "/", "", b.secure, true)
}

func (b CookieBinder) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, "", -1, "/", "", b.secure, true)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", b.secure, true)
}
