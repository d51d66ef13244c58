package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/server/middleware"
	"mealplanner/internal/shared/server/respond"
)

// registerMeRoutes attaches the /me endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", middleware.RequireUser(), meHandler)
}

func meHandler(c *gin.Context) {
	response := gin.H{
		"userId": middleware.UserIDFromContext(c),
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	respond.JSON(c, http.StatusOK, response)
}
