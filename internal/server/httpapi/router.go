package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/tenantnotes/internal/logging"
	"github.com/dkravets/tenantnotes/internal/server/config"
	"github.com/dkravets/tenantnotes/internal/server/models"
	"github.com/dkravets/tenantnotes/internal/server/services"
)

// Handler carries the services and ambient dependencies of the REST API.
type Handler struct {
	auth       *services.AuthService
	notes      *services.NoteService
	tenants    *services.TenantService
	db         *sql.DB
	logger     logging.Logger
	production bool
}

func NewHandler(
	auth *services.AuthService,
	notes *services.NoteService,
	tenants *services.TenantService,
	db *sql.DB,
	logger logging.Logger,
	cfg *config.Config,
) *Handler {
	return &Handler{
		auth:       auth,
		notes:      notes,
		tenants:    tenants,
		db:         db,
		logger:     logger.With("module", "httpapi"),
		production: cfg.IsProduction(),
	}
}

// InitRoutes builds the gin engine with the full middleware pipeline:
// authenticate, then (where applicable) resolve-tenant and role checks,
// then the handler.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CORS())

	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.POST("/refreshToken", h.RefreshToken)

		auth.GET("/me", h.Authenticate, h.CurrentUser)
	}

	notes := router.Group("/notes")
	notes.Use(h.Authenticate, h.RequireRole(models.RoleAdmin, models.RoleMember))
	{
		notes.GET("", h.ListNotes)
		notes.POST("", h.CreateNote)
		notes.GET("/:id", h.GetNote)
		notes.PUT("/:id", h.UpdateNote)
		notes.DELETE("/:id", h.DeleteNote)
	}

	tenants := router.Group("/tenants")
	tenants.Use(h.Authenticate, h.RequireTenantSlug, h.RequireRole(models.RoleAdmin))
	{
		tenants.POST("/:slug/upgrade", h.UpgradeTenant)
	}

	return router
}

// Health is a stateless readiness probe: it pings the database per request
// and keeps no shared state.
func (h *Handler) Health(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "Database unreachable", CodeInternalError)
		return
	}
	respondOK(c, http.StatusOK, "OK", nil)
}
