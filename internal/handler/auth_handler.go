package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService  service.AuthService
	notification service.NotificationService
}

// NewAuthHandler sets up the routing dependencies for auth endpoints
func NewAuthHandler(authService service.AuthService, notification service.NotificationService) *AuthHandler {
	return &AuthHandler{authService: authService, notification: notification}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
	router.POST("/refresh", h.Refresh)
	router.POST("/logout", h.Logout)

	router.GET("/me", middleware.RequireAuth(), h.Me)
	router.POST("/devices", middleware.RequireAuth(), h.RegisterDevice)
	router.POST("/notifications/broadcast", middleware.RequireAuth(),
		middleware.RequireRole(model.RoleSuperAdmin, model.RoleSystemAdmin), h.Broadcast)
}

// Login authenticates a user and issues a token pair
// @Summary      Login
// @Description  Authenticates with email and password, setting token cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.SessionResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetTokenCookies(c, session.Tokens.AccessToken, session.Tokens.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, session))
}

// Refresh rotates the refresh token and issues a new pair
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  response.Response{data=service.TokenPair}
// @Failure      403  {object}  response.Response
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing refresh token"))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		fail(c, err)
		return
	}

	middleware.SetTokenCookies(c, pair.AccessToken, pair.RefreshToken)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pair))
}

// Logout revokes the refresh token and clears cookies
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), h.refreshTokenFrom(c)); err != nil {
		fail(c, err)
		return
	}

	middleware.ClearTokenCookies(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "logged out"}))
}

// Me returns the authenticated principal
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	actor := actorFrom(c)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"id":    actor.ID,
		"email": actor.Email,
		"role":  actor.Role,
		"rank":  model.RoleRank(actor.Role),
	}))
}

type registerDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// RegisterDevice stores a push notification device token
// @Summary      Register device token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      registerDeviceRequest  true  "Device token"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /devices [post]
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.notification.RegisterDevice(c.Request.Context(), actorFrom(c), req.Token); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "device registered"}))
}

// Broadcast pushes a notification to every registered device
// @Summary      Broadcast notification
// @Description  Sends a push notification to all registered devices
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SendBroadcastRequest  true  "Notification"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /notifications/broadcast [post]
func (h *AuthHandler) Broadcast(c *gin.Context) {
	var req service.SendBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	h.notification.PushToAll(req.Title, req.Body)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "broadcast queued"}))
}

func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie("refresh_token"); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
