package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/pagination"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler sets up the routing dependencies for audit log endpoints
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/audit-logs", middleware.RequireBoss(), h.List)
}

// List returns the audit trail visible to the caller
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Limit"
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	logs, total, err := h.auditService.List(c.Request.Context(), actorFrom(c), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"logs":       logs,
		"pagination": params.MetaFor(total),
	}))
}
