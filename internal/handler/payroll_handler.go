package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type PayrollHandler struct {
	payrollService service.PayrollService
}

// NewPayrollHandler sets up the routing dependencies for payroll endpoints
func NewPayrollHandler(payrollService service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PayrollHandler) RegisterRoutes(router *gin.RouterGroup) {
	payroll := router.Group("/payroll", middleware.RequireAuth())
	{
		payroll.GET("/:id", h.Payslip)
		payroll.GET("/:id/pdf", h.PayslipPDF)
	}
}

// Payslip returns the computed payslip figures for an account
// @Summary      Payslip summary
// @Tags         payroll
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.PayslipSummary}
// @Failure      403  {object}  response.Response
// @Router       /payroll/{id} [get]
func (h *PayrollHandler) Payslip(c *gin.Context) {
	payslip, err := h.payrollService.Payslip(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, payslip))
}

// PayslipPDF streams the payslip as a PDF document
// @Summary      Payslip PDF
// @Tags         payroll
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "User ID"
// @Success      200  {file}  binary
// @Failure      403  {object}  response.Response
// @Router       /payroll/{id}/pdf [get]
func (h *PayrollHandler) PayslipPDF(c *gin.Context) {
	doc, filename, err := h.payrollService.PayslipPDF(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
