package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/server/middleware"
	"mealplanner/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("/users/me", middleware.RequireUser())
	authed.GET("/recipe-history", h.recentHistory)
	authed.PUT("/recipe-history", h.appendHistory)
}

func (h *Handler) recentHistory(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	ids, err := h.Svc.RecentRecipeIDs(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load history", nil)
		return
	}
	respond.OK(c, gin.H{"recipeIds": ids})
}

func (h *Handler) appendHistory(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	var body HistoryUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid history body", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if err := h.Svc.AppendRecipeHistory(c.Request.Context(), userID, body.RecipeIDs); err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update history", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
