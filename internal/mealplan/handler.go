package mealplan

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/server/middleware"
	"mealplanner/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the meal plan service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/mealplans", h.generate)
}

func (h *Handler) generate(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		c.Set("mealCount", 0)
		respond.OK(c, []Result{})
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid meal plan body", nil)
		return
	}

	results, err := h.Svc.Generate(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate meal plan", nil)
		return
	}
	c.Set("mealCount", len(results))
	respond.OK(c, results)
}
