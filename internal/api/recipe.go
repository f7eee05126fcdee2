package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/middleware"
	"github.com/pageza/cooking-assistant/backend/internal/service"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

// RecipeHandler serves generation and history for the signed-in user
type RecipeHandler struct {
	recipes service.IRecipeService
	logger  *zap.Logger
}

func NewRecipeHandler(recipes service.IRecipeService, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, logger: logger}
}

// Generate creates a recipe from free-text preferences
func (h *RecipeHandler) Generate(c *gin.Context) {
	var req types.GenerateRecipeRequest
	sess, ok := h.bind(c, ViewGenerate, &req, &req.Settings)
	if !ok {
		return
	}

	entry, err := h.recipes.GenerateRecipe(c.Request.Context(), sess, req.Preferences, req.AdditionalNotes)
	if err != nil {
		h.fail(c, ViewGenerate, err)
		return
	}

	view := NewEntryView(*entry)
	c.JSON(http.StatusOK, Result{View: ViewGenerate, Recipe: &view, Error: view.Error})
}

// Ideas suggests three recipes for the ingredients on hand
func (h *RecipeHandler) Ideas(c *gin.Context) {
	var req types.RecipeIdeasRequest
	sess, ok := h.bind(c, ViewIngredients, &req, &req.Settings)
	if !ok {
		return
	}

	ingredients := append(req.Ingredients, service.ParseIngredients(req.IngredientsText)...)
	batch, err := h.recipes.SuggestIdeas(c.Request.Context(), sess, ingredients, req.Preferences)
	if err != nil {
		h.fail(c, ViewIngredients, err)
		return
	}

	c.JSON(http.StatusOK, Result{
		View:    ViewIngredients,
		Error:   batch.Error,
		Ideas:   batch.Ideas,
		BatchID: batch.BatchID,
	})
}

// ExpandIdea generates the full recipe for one idea
func (h *RecipeHandler) ExpandIdea(c *gin.Context) {
	var req types.ExpandIdeaRequest
	sess, ok := h.bind(c, ViewIngredients, &req, &req.Settings)
	if !ok {
		return
	}

	index := 0
	if req.Index != nil {
		index = *req.Index
	}

	entry, err := h.recipes.ExpandIdea(c.Request.Context(), sess, req.Idea, req.BatchID, index)
	if err != nil {
		h.fail(c, ViewIngredients, err)
		return
	}

	view := NewEntryView(*entry)
	c.JSON(http.StatusOK, Result{View: ViewFullRecipe, Recipe: &view, Error: view.Error})
}

// History lists the user's archived recipes, newest first
func (h *RecipeHandler) History(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Result{View: ViewLogin, Error: "user not authenticated"})
		return
	}

	entries, err := h.recipes.History(c.Request.Context(), sess)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result := Result{View: ViewHistory, Entries: make([]EntryView, 0, len(entries))}
	for _, entry := range entries {
		result.Entries = append(result.Entries, NewEntryView(entry))
	}
	if len(entries) == 0 {
		result.Message = emptyHistoryMessage
	}
	c.JSON(http.StatusOK, result)
}

// bind decodes the body and applies its settings to the caller's session
func (h *RecipeHandler) bind(c *gin.Context, view View, req any, settings *types.Settings) (types.Session, bool) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Result{View: ViewLogin, Error: "user not authenticated"})
		return types.Session{}, false
	}

	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, Result{View: view, Error: bindErrorMessage(err)})
		return types.Session{}, false
	}

	restrictions, err := types.NormalizeRestrictions(settings.DietaryRestrictions)
	if err != nil {
		c.JSON(http.StatusBadRequest, Result{View: view, Error: err.Error()})
		return types.Session{}, false
	}

	return sess.WithSettings(settings.Servings, restrictions), true
}

func (h *RecipeHandler) fail(c *gin.Context, view View, err error) {
	switch {
	case errors.Is(err, service.ErrMissingPreferences),
		errors.Is(err, service.ErrMissingIngredients),
		errors.Is(err, service.ErrMissingIdea):
		c.JSON(http.StatusBadRequest, Result{View: view, Error: err.Error()})
	case errors.Is(err, service.ErrIdeaNotFound):
		c.JSON(http.StatusNotFound, Result{View: view, Error: "Recipe idea not found. Please request new ideas."})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, Result{View: ViewLogin, Error: "User not found"})
	default:
		_ = c.Error(err)
	}
}

func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidBodyMessage
	}
	switch verrs[0].Field() {
	case "Servings":
		return "Number of servings must be between 1 and 20"
	case "Index":
		return "Idea index must not be negative"
	default:
		return invalidBodyMessage
	}
}
