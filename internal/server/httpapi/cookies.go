package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/tenantnotes/internal/server/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

func (h *Handler) setTokenCookies(c *gin.Context, pair *services.TokenPair) {
	if h.production {
		c.SetSameSite(http.SameSiteStrictMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(accessTokenCookie, pair.AccessToken,
		int(h.auth.AccessTokenTTL().Seconds()), "/", "", h.production, true)
	c.SetCookie(refreshTokenCookie, pair.RefreshToken,
		int(h.auth.RefreshTokenTTL().Seconds()), "/", "", h.production, true)
}

func (h *Handler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", h.production, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.production, true)
}
