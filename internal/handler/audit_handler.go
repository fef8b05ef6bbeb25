package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"labreserve/internal/auth"
	"labreserve/internal/errors"
	"labreserve/internal/model"
	"labreserve/internal/service"
)

// AuditHandler handles audit log endpoints.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// @Summary List audit entries, newest first
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset (default 0)"
// @Param limit query int false "Limit (default 100)"
// @Success 200 {array} model.AuditLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /audit/ [get]
func (h *AuditHandler) List(c echo.Context) error {
	if !auth.CurrentUser(c).IsAdmin() {
		return mapDomainError(errors.ErrForbidden)
	}

	skip, _ := strconv.Atoi(c.QueryParam("skip"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.auditService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return mapDomainError(err)
	}
	if entries == nil {
		entries = []model.AuditLog{}
	}
	return c.JSON(http.StatusOK, entries)
}
