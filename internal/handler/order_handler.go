package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler sets up the routing dependencies for purchase order endpoints
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", middleware.RequireAuth())
	{
		orders.POST("", middleware.RequireRole(model.RoleWarehouseStaff), h.Create)
		orders.GET("", h.List)
		orders.DELETE("/:id", h.Delete)
		orders.POST("/:id/approve", middleware.RequireBoss(), h.Approve)
		orders.POST("/:id/reject", middleware.RequireBoss(), h.Reject)
	}
}

// Create raises a new purchase order
// @Summary      Raise purchase order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateOrderRequest  true  "Purchase order"
// @Success      201      {object}  response.Response{data=service.OrderResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), actorFrom(c), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, order))
}

// List returns purchase orders visible to the caller
// @Summary      List purchase orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.OrderResponse}
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderService.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, orders))
}

// Delete removes a purchase order
// @Summary      Delete a purchase order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase order ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "purchase order deleted"}))
}

// Approve resolves a pending purchase order as approved
// @Summary      Approve a purchase order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /orders/{id}/approve [post]
func (h *OrderHandler) Approve(c *gin.Context) {
	order, err := h.orderService.Approve(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// Reject resolves a pending purchase order as rejected
// @Summary      Reject a purchase order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Purchase order ID"
// @Success      200  {object}  response.Response{data=service.OrderResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *gin.Context) {
	order, err := h.orderService.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}
