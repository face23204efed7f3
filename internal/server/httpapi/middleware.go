package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/tenantnotes/internal/common"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/services"
)

const (
	sessionKey         = "session"
	requestedTenantKey = "requestedTenant"
)

// extractAccessToken returns the bearer credential: the cookie wins over the
// Authorization header.
func extractAccessToken(c *gin.Context) string {
	if tok, err := c.Cookie(accessTokenCookie); err == nil && tok != "" {
		return tok
	}
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate verifies the access token and attaches the resolved session.
// Downstream handlers never see a partially-populated context: either the
// full {user, tenant} snapshot is there or the request was aborted.
func (h *Handler) Authenticate(c *gin.Context) {
	token := extractAccessToken(c)
	if token == "" {
		respondError(c, http.StatusUnauthorized, "Access token required", CodeAccessTokenMissing)
		return
	}

	sess, err := h.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			respondError(c, http.StatusUnauthorized, "Access token expired", CodeAccessTokenExpired)
		case errors.Is(err, common.ErrInvalidToken):
			respondError(c, http.StatusUnauthorized, "Invalid token", CodeAccessTokenInvalid)
		case errors.Is(err, common.ErrUserNotFound):
			respondError(c, http.StatusUnauthorized, "User not found", CodeUserNotFound)
		case errors.Is(err, common.ErrTenantNotFound):
			respondError(c, http.StatusUnauthorized, "Tenant not found", CodeTenantNotFound)
		default:
			h.logger.Error(c.Request.Context(), "authentication failed", "error", err.Error())
			respondError(c, http.StatusInternalServerError, "Authentication error", CodeAuthError)
		}
		return
	}

	c.Set(sessionKey, sess)
	c.Next()
}

// GetSession returns the session attached by Authenticate.
func GetSession(c *gin.Context) (*services.Session, bool) {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*services.Session)
	return sess, ok
}

// RequireRole allows only callers whose role is in the given list. Must run
// after Authenticate.
func (h *Handler) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
			return
		}
		for _, role := range roles {
			if sess.User.Role == role {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "Insufficient permissions", CodeInsufficientPermissions)
	}
}

// RequireTenantSlug enforces isolation on slug-addressed routes: the slug
// must resolve, and it must resolve to the session tenant. The resolved
// tenant is bound to the context as the scoping key for the handler.
func (h *Handler) RequireTenantSlug(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	slug := c.Param("slug")
	if slug == "" {
		respondError(c, http.StatusBadRequest, "Tenant slug is required", CodeValidationError)
		return
	}

	requested, err := h.tenants.ResolveSlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			respondError(c, http.StatusNotFound, "Tenant not found", CodeTenantNotFound)
			return
		}
		h.logger.Error(c.Request.Context(), "tenant resolution failed", "slug", slug, "error", err.Error())
		respondError(c, http.StatusInternalServerError, "Internal server error", CodeInternalError)
		return
	}

	if requested.ID != sess.Tenant.ID {
		h.logger.Warn(c.Request.Context(), "tenant access denied",
			"user", sess.User.Email, "session_tenant", sess.Tenant.Slug, "requested_tenant", slug)
		respondError(c, http.StatusForbidden,
			"Access denied: you do not have access to this tenant", CodeTenantMismatch)
		return
	}

	c.Set(requestedTenantKey, requested)
	c.Next()
}

// GetRequestedTenant returns the tenant bound by RequireTenantSlug.
func GetRequestedTenant(c *gin.Context) (*models.Tenant, bool) {
	value, ok := c.Get(requestedTenantKey)
	if !ok {
		return nil, false
	}
	tenant, ok := value.(*models.Tenant)
	return tenant, ok
}

// CORS mirrors the permissive development policy of the web client.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
