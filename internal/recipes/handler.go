package recipes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"mealplanner/internal/shared/server/middleware"
	"mealplanner/internal/shared/server/respond"
)

const defaultPageSize = 10

// Handler wires HTTP handlers to the recipes service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recipe routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/recipes", h.listRecipes)
	rg.GET("/recipes/filter", h.filterRecipes)
	rg.GET("/recipes/keywords", h.uniqueKeywords)
	rg.GET("/recipes/ingredients", h.uniqueIngredients)
	rg.GET("/recipes/:id", h.getRecipe)

	authed := rg.Group("", middleware.RequireUser())
	authed.POST("/recipes", h.createRecipes)
	authed.PUT("/recipes/:id", h.updateRecipe)
	authed.DELETE("/recipes/:id", h.deleteRecipe)
}

func (h *Handler) filterRecipes(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}
	filter := QueryFilter{
		Keywords:           queryList(c, "keywords"),
		Ingredients:        queryList(c, "ingredients"),
		ExcludeIngredients: queryList(c, "exclude"),
	}
	if v := c.Query("percent"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < 0 || parsed > 100 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "percent must be between 0 and 100", nil)
			return
		}
		filter.MatchPercent = &parsed
	}

	result, ok, err := h.Svc.GetFilteredRecipes(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to filter recipes", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "pageSize must not exceed 100", nil)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) listRecipes(c *gin.Context) {
	page, pageSize, ok := pagination(c)
	if !ok {
		return
	}
	result, ok, err := h.Svc.ListRecipes(c.Request.Context(), page, pageSize)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recipes", nil)
		return
	}
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "pageSize must not exceed 100", nil)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) getRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	recipe, found, err := h.Svc.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch recipe", nil)
		return
	}
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "recipe not found", nil)
		return
	}
	respond.OK(c, recipe)
}

func (h *Handler) uniqueKeywords(c *gin.Context) {
	keywords, err := h.Svc.UniqueKeywords(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list keywords", nil)
		return
	}
	respond.OK(c, keywords)
}

func (h *Handler) uniqueIngredients(c *gin.Context) {
	ingredients, err := h.Svc.UniqueIngredients(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list ingredients", nil)
		return
	}
	respond.OK(c, ingredients)
}

func (h *Handler) createRecipes(c *gin.Context) {
	var inputs []RecipeInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "body must be a list of recipes", nil)
		return
	}
	created, err := h.Svc.CreateRecipes(c.Request.Context(), inputs)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create recipes", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, created)
}

func (h *Handler) updateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var update RecipeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid recipe body", nil)
		return
	}
	if update.RecipeID != 0 && update.RecipeID != id {
		respond.Error(c, http.StatusBadRequest, "validation_error", "recipeId does not match path", nil)
		return
	}
	update.RecipeID = id

	updated, found, err := h.Svc.UpdateRecipe(c.Request.Context(), update)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update recipe", nil)
		}
		return
	}
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "recipe not found", nil)
		return
	}
	respond.OK(c, updated)
}

func (h *Handler) deleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	deleted, found, err := h.Svc.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete recipe", nil)
		return
	}
	if !found {
		respond.Error(c, http.StatusNotFound, "not_found", "recipe not found", nil)
		return
	}
	respond.OK(c, deleted)
}

func recipeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "recipe id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func pagination(c *gin.Context) (int, int, bool) {
	page := 1
	pageSize := defaultPageSize
	if v := c.Query("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "page must be an integer", nil)
			return 0, 0, false
		}
		page = parsed
	}
	if v := c.Query("pageSize"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "pageSize must be a positive integer", nil)
			return 0, 0, false
		}
		pageSize = parsed
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize, true
}

// queryList accepts both repeated and comma-separated query values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
