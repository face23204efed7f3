package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Email and password are required", CodeValidationError)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Email and password are required", CodeValidationError)
		return
	}

	sess, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	h.logger.Info(c.Request.Context(), "login", "user", sess.User.Email, "tenant", sess.Tenant.Slug)
	respondOK(c, http.StatusOK, "Login successful", toSessionJSON(sess))
}

// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(refreshTokenCookie); err == nil && token != "" {
		if err := h.auth.Revoke(c.Request.Context(), token); err != nil {
			h.logger.Error(c.Request.Context(), "refresh token revocation failed", "error", err.Error())
		}
	}

	h.clearTokenCookies(c)
	respondOK(c, http.StatusOK, "Logout successful", nil)
}

// POST /auth/refreshToken
func (h *Handler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(refreshTokenCookie)
	if token == "" {
		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		respondError(c, http.StatusUnauthorized, "Refresh token required", CodeAccessTokenMissing)
		return
	}

	sess, pair, err := h.auth.Rotate(c.Request.Context(), token)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	h.logger.Info(c.Request.Context(), "tokens rotated", "user", sess.User.Email)
	respondOK(c, http.StatusOK, "Tokens refreshed successfully", nil)
}

// GET /auth/me
func (h *Handler) CurrentUser(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}
	respondOK(c, http.StatusOK, "User retrieved successfully", toSessionJSON(sess))
}
