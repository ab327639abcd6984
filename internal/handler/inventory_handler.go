package handler

import (
	"context"
	"net/http"
	"strconv"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

// NewInventoryHandler sets up the routing dependencies for inventory endpoints
func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/products", middleware.RequireAuth())
	{
		products.GET("", h.List)
		products.GET("/low-stock", h.LowStock)
		products.GET("/:id", h.GetByID)
		products.POST("", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin, model.RoleDepartmentManager), h.Create)
		products.PUT("/:id", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin, model.RoleDepartmentManager), h.Update)
		products.DELETE("/:id", middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin), h.Delete)
		products.POST("/:id/stock-in", middleware.RequireRole(model.RoleWarehouseStaff, model.RoleDepartmentManager, model.RoleSystemAdmin), h.StockIn)
		products.POST("/:id/stock-out", middleware.RequireRole(model.RoleWarehouseStaff, model.RoleDepartmentManager, model.RoleSystemAdmin), h.StockOut)
	}
}

// Create adds a product to the catalog
// @Summary      Create product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateProductRequest  true  "Product"
// @Success      201      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), actorFrom(c), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// List returns the product catalog, optionally filtered by search
// @Summary      List products
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name or SKU filter"
// @Success      200     {object}  response.Response{data=[]service.ProductResponse}
// @Router       /products [get]
func (h *InventoryHandler) List(c *gin.Context) {
	products, err := h.inventoryService.ListProducts(c.Request.Context(), c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

// GetByID fetches a single product
// @Summary      Get product by ID
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=service.ProductResponse}
// @Failure      404  {object}  response.Response
// @Router       /products/{id} [get]
func (h *InventoryHandler) GetByID(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Update edits a product
// @Summary      Update product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "New values"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), actorFrom(c), c.Param("id"), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// Delete removes a product from the catalog
// @Summary      Delete product
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Router       /products/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), actorFrom(c), c.Param("id"), c.ClientIP()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "product deleted"}))
}

// StockIn records received stock
// @Summary      Stock in
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Product ID"
// @Param        payload  body      service.StockAdjustmentRequest  true  "Quantity"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      400      {object}  response.Response
// @Router       /products/{id}/stock-in [post]
func (h *InventoryHandler) StockIn(c *gin.Context) {
	h.adjust(c, h.inventoryService.StockIn)
}

// StockOut records issued stock
// @Summary      Stock out
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Product ID"
// @Param        payload  body      service.StockAdjustmentRequest  true  "Quantity"
// @Success      200      {object}  response.Response{data=service.ProductResponse}
// @Failure      409      {object}  response.Response
// @Router       /products/{id}/stock-out [post]
func (h *InventoryHandler) StockOut(c *gin.Context) {
	h.adjust(c, h.inventoryService.StockOut)
}

// LowStock lists products at or below the reorder threshold
// @Summary      Low stock report
// @Tags         inventory
// @Produce      json
// @Security     BearerAuth
// @Param        threshold  query     int  false  "Override threshold"
// @Success      200        {object}  response.Response{data=[]service.ProductResponse}
// @Router       /products/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	threshold, _ := strconv.Atoi(c.Query("threshold"))
	products, err := h.inventoryService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}

type adjustFunc func(ctx context.Context, actor service.Actor, id string, req service.StockAdjustmentRequest, ip string) (*service.ProductResponse, error)

func (h *InventoryHandler) adjust(c *gin.Context, fn adjustFunc) {
	var req service.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	product, err := fn(c.Request.Context(), actorFrom(c), c.Param("id"), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}
