package handler

import (
	"net/http"

	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/service"
	"mobileopsconnect/pkg/response"

	"github.com/gin-gonic/gin"
)

// actorFrom pulls the authenticated principal out of the request context.
// The auth middleware guarantees it is present on protected routes.
func actorFrom(c *gin.Context) service.Actor {
	a, _ := middleware.CurrentActor(c)
	return service.Actor{ID: a.ID, Email: a.Email, Role: a.Role}
}

// fail writes a typed service error as the matching HTTP response.
func fail(c *gin.Context, err error) {
	c.JSON(response.FromError(err))
}

// badRequest writes a binding failure.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
