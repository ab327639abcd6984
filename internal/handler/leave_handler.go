package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type LeaveHandler struct {
	leaveService service.LeaveService
}

// NewLeaveHandler sets up the routing dependencies for leave endpoints
func NewLeaveHandler(leaveService service.LeaveService) *LeaveHandler {
	return &LeaveHandler{leaveService: leaveService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *LeaveHandler) RegisterRoutes(router *gin.RouterGroup) {
	leaves := router.Group("/leaves", middleware.RequireAuth())
	{
		leaves.POST("", h.Create)
		leaves.GET("", h.List)
		leaves.PUT("/:id", h.Update)
		leaves.DELETE("/:id", h.Delete)
		leaves.POST("/:id/approve", middleware.RequireBoss(), h.Approve)
		leaves.POST("/:id/reject", middleware.RequireBoss(), h.Reject)
	}
}

// Create submits a new leave request
// @Summary      Submit leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateLeaveRequest  true  "Leave request"
// @Success      201      {object}  response.Response{data=service.LeaveResponse}
// @Failure      400      {object}  response.Response
// @Router       /leaves [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	var req service.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	leave, err := h.leaveService.Create(c.Request.Context(), actorFrom(c), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, leave))
}

// List returns leave requests visible to the caller
// @Summary      List leave requests
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.LeaveResponse}
// @Router       /leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
	leaves, err := h.leaveService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leaves))
}

// Update edits a pending leave request
// @Summary      Edit a pending leave request
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Leave request ID"
// @Param        payload  body      service.UpdateLeaveRequest  true  "New values"
// @Success      200      {object}  response.Response{data=service.LeaveResponse}
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /leaves/{id} [put]
func (h *LeaveHandler) Update(c *gin.Context) {
	var req service.UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	leave, err := h.leaveService.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// Delete removes a leave request
// @Summary      Delete a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c *gin.Context) {
	if err := h.leaveService.Delete(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "leave request deleted"}))
}

// Approve resolves a pending leave request as approved
// @Summary      Approve a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  response.Response{data=service.LeaveResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /leaves/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	leave, err := h.leaveService.Approve(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}

// Reject resolves a pending leave request as rejected
// @Summary      Reject a leave request
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave request ID"
// @Success      200  {object}  response.Response{data=service.LeaveResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /leaves/{id}/reject [post]
func (h *LeaveHandler) Reject(c *gin.Context) {
	leave, err := h.leaveService.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, leave))
}
