package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService  service.SettingsService
	dashboardService service.DashboardService
}

// NewSettingsHandler sets up the routing dependencies for settings and dashboard endpoints
func NewSettingsHandler(settingsService service.SettingsService, dashboardService service.DashboardService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, dashboardService: dashboardService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/settings", middleware.RequireAuth(), h.Get)
	router.PUT("/settings", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin), h.Update)
	router.GET("/dashboard", middleware.RequireBoss(), h.Dashboard)
}

// Get returns the system-wide settings
// @Summary      Get settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.SettingsResponse}
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// Update edits the system-wide settings
// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateSettingsRequest  true  "New values"
// @Success      200      {object}  response.Response{data=service.SettingsResponse}
// @Failure      400      {object}  response.Response
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), actorFrom(c), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, settings))
}

// Dashboard returns the operational counters for the landing screen
// @Summary      Dashboard counters
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardResponse}
// @Failure      403  {object}  response.Response
// @Router       /dashboard [get]
func (h *SettingsHandler) Dashboard(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
