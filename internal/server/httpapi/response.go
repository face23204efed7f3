// Package httpapi exposes the REST/JSON interface: gin router, handlers and
// the middleware pipeline (authenticate, resolve tenant, check role).
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dkravets/tenantnotes/internal/common"
)

// Machine-readable failure codes carried in the response envelope so clients
// can tell "log in again" from "retry later".
const (
	CodeAccessTokenMissing      = "ACCESS_TOKEN_MISSING"
	CodeAccessTokenInvalid      = "ACCESS_TOKEN_INVALID"
	CodeAccessTokenExpired      = "ACCESS_TOKEN_EXPIRED"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeTenantNotFound          = "TENANT_NOT_FOUND"
	CodeAuthError               = "AUTH_ERROR"
	CodeAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeTenantMismatch          = "TENANT_MISMATCH"
	CodeNoteLimitReached        = "NOTE_LIMIT_REACHED"
	CodeAlreadyOnPlan           = "ALREADY_ON_PLAN"
	CodeValidationError         = "VALIDATION_ERROR"
	CodeNotFound                = "NOT_FOUND"
	CodeConflict                = "CONFLICT"
	CodeInternalError           = "INTERNAL_ERROR"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Code    string `json:"code,omitempty"`
}

func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message, Code: code})
}

// respondServiceError translates service-layer sentinels into the HTTP
// taxonomy. Unexpected errors surface as a generic 500; the caller is
// responsible for logging them.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(c, http.StatusBadRequest, "Title and content are required", CodeValidationError)
	case errors.Is(err, common.ErrorUnauthorized):
		respondError(c, http.StatusUnauthorized, "Invalid credentials", CodeAuthenticationRequired)
	case errors.Is(err, common.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, "Token expired", CodeAccessTokenExpired)
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrRefreshTokenExpired):
		respondError(c, http.StatusUnauthorized, "Invalid token", CodeAccessTokenInvalid)
	case errors.Is(err, common.ErrUserNotFound):
		respondError(c, http.StatusUnauthorized, "User not found", CodeUserNotFound)
	case errors.Is(err, common.ErrTenantNotFound):
		respondError(c, http.StatusUnauthorized, "Tenant not found", CodeTenantNotFound)
	case errors.Is(err, common.ErrTenantMismatch):
		respondError(c, http.StatusForbidden, "Access denied: you do not have access to this tenant", CodeTenantMismatch)
	case errors.Is(err, common.ErrorForbidden):
		respondError(c, http.StatusForbidden, "Insufficient permissions", CodeInsufficientPermissions)
	case errors.Is(err, common.ErrQuotaExceeded):
		respondError(c, http.StatusForbidden, "Note limit reached. Upgrade to Pro for unlimited notes.", CodeNoteLimitReached)
	case errors.Is(err, common.ErrAlreadyOnPlan):
		respondError(c, http.StatusBadRequest, "Tenant is already on the Pro plan", CodeAlreadyOnPlan)
	case errors.Is(err, common.ErrorNotFound):
		respondError(c, http.StatusNotFound, "Not found", CodeNotFound)
	case errors.Is(err, common.ErrorConflict):
		respondError(c, http.StatusConflict, "Already exists", CodeConflict)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", CodeInternalError)
	}
}
