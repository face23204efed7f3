package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// POST /tenants/:slug/upgrade
func (h *Handler) UpgradeTenant(c *gin.Context) {
	sess, ok := GetSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", CodeAuthenticationRequired)
		return
	}

	// the guard already resolved and matched the slug; the service still
	// re-checks so it cannot be called unscoped
	tenant, err := h.tenants.Upgrade(c.Request.Context(), sess, c.Param("slug"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.logger.Info(c.Request.Context(), "tenant upgraded", "tenant", tenant.Slug, "by", sess.User.Email)
	respondOK(c, http.StatusOK, "Tenant upgraded to Pro successfully", gin.H{"tenant": toTenantJSON(tenant)})
}
