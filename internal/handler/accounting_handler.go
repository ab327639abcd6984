package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/pagination"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountingHandler struct {
	accountingService service.AccountingService
}

// NewAccountingHandler sets up the routing dependencies for accounting endpoints
func NewAccountingHandler(accountingService service.AccountingService) *AccountingHandler {
	return &AccountingHandler{accountingService: accountingService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AccountingHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounting := router.Group("/accounting", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin))
	{
		accounting.GET("/entries", h.List)
		accounting.POST("/entries", h.Create)
		accounting.GET("/summary", h.Summary)
	}
}

// Create records a manual ledger entry
// @Summary      Record accounting entry
// @Tags         accounting
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateEntryRequest  true  "Ledger entry"
// @Success      201      {object}  response.Response{data=service.EntryResponse}
// @Failure      400      {object}  response.Response
// @Router       /accounting/entries [post]
func (h *AccountingHandler) Create(c *gin.Context) {
	var req service.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	entry, err := h.accountingService.Create(c.Request.Context(), actorFrom(c), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// List returns ledger entries, optionally filtered by type
// @Summary      List accounting entries
// @Tags         accounting
// @Produce      json
// @Security     BearerAuth
// @Param        type   query     string  false  "INCOME or EXPENSE"
// @Param        page   query     int     false  "Page"
// @Param        limit  query     int     false  "Limit"
// @Success      200    {object}  response.Response
// @Router       /accounting/entries [get]
func (h *AccountingHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	entries, total, err := h.accountingService.List(c.Request.Context(), c.Query("type"), params)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"entries":    entries,
		"pagination": params.MetaFor(total),
	}))
}

// Summary returns income, expense and net totals
// @Summary      Financial summary
// @Tags         accounting
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.FinancialSummary}
// @Router       /accounting/summary [get]
func (h *AccountingHandler) Summary(c *gin.Context) {
	summary, err := h.accountingService.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
