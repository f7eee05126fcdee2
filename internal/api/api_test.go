package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/cooking-assistant/backend/internal/middleware"
	"github.com/pageza/cooking-assistant/backend/internal/models"
	"github.com/pageza/cooking-assistant/backend/internal/service"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

type mockRecipeService struct {
	mock.Mock
}

func (m *mockRecipeService) GenerateRecipe(ctx context.Context, sess types.Session, preferences, notes string) (*models.RecipeEntry, error) {
	args := m.Called(ctx, sess, preferences, notes)
	entry, _ := args.Get(0).(*models.RecipeEntry)
	return entry, args.Error(1)
}

func (m *mockRecipeService) SuggestIdeas(ctx context.Context, sess types.Session, ingredients []string, preferences string) (*service.IdeaBatch, error) {
	args := m.Called(ctx, sess, ingredients, preferences)
	batch, _ := args.Get(0).(*service.IdeaBatch)
	return batch, args.Error(1)
}

func (m *mockRecipeService) ExpandIdea(ctx context.Context, sess types.Session, idea *models.RecipeIdea, batchID string, index int) (*models.RecipeEntry, error) {
	args := m.Called(ctx, sess, idea, batchID, index)
	entry, _ := args.Get(0).(*models.RecipeEntry)
	return entry, args.Error(1)
}

func (m *mockRecipeService) History(ctx context.Context, sess types.Session) ([]models.RecipeEntry, error) {
	args := m.Called(ctx, sess)
	entries, _ := args.Get(0).([]models.RecipeEntry)
	return entries, args.Error(1)
}

type staticValidator struct{}

func (staticValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return &types.TokenClaims{Email: "a@b.com", Name: "Ann"}, nil
}

func setupRecipeRouter(t *testing.T, svc *mockRecipeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	h := NewRecipeHandler(svc, logger)

	r := gin.New()
	r.Use(middleware.ErrorHandler(logger))
	g := r.Group("/recipes", middleware.AuthMiddleware(staticValidator{}))
	g.POST("/generate", h.Generate)
	g.POST("/ideas", h.Ideas)
	g.POST("/ideas/expand", h.ExpandIdea)
	g.GET("/history", h.History)
	return r
}

func post(r *gin.Engine, path, body string) (*httptest.ResponseRecorder, Result) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res Result
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestGenerate_PassesSessionSettings(t *testing.T) {
	svc := new(mockRecipeService)
	want := types.Session{Email: "a@b.com", Name: "Ann", Servings: 4, DietaryRestrictions: []string{"Vegan", "Low-Carb"}}
	svc.On("GenerateRecipe", mock.Anything, want, "curry", "no nuts").Return(&models.RecipeEntry{
		ID:         "1",
		Prompt:     "curry",
		RecipeData: models.RecipePayload(`{"title":"Curry"}`),
		CreatedAt:  time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local),
	}, nil)

	w, res := post(setupRecipeRouter(t, svc), "/recipes/generate",
		`{"preferences":"curry","additional_notes":"no nuts","servings":4,"dietary_restrictions":["vegan","low-carb"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ViewGenerate, res.View)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, "Curry", res.Recipe.Title)
	assert.Equal(t, "2024-05-06 07:08", res.Recipe.CreatedAt)
	svc.AssertExpectations(t)
}

func TestGenerate_DefaultServings(t *testing.T) {
	svc := new(mockRecipeService)
	svc.On("GenerateRecipe", mock.Anything, mock.MatchedBy(func(s types.Session) bool {
		return s.Servings == 2 && len(s.DietaryRestrictions) == 0
	}), "pasta", "").Return(&models.RecipeEntry{RecipeData: models.ErrorPayload(service.MsgRecipeFailed)}, nil)

	w, res := post(setupRecipeRouter(t, svc), "/recipes/generate", `{"preferences":"pasta"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgRecipeFailed, res.Error)
	svc.AssertExpectations(t)
}

func TestGenerate_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"servings too high", `{"preferences":"x","servings":21}`, "Number of servings must be between 1 and 20"},
		{"servings negative", `{"preferences":"x","servings":-1}`, "Number of servings must be between 1 and 20"},
		{"unknown restriction", `{"preferences":"x","dietary_restrictions":["Carnivore"]}`, "Unknown dietary restriction: Carnivore"},
		{"malformed body", `{"preferences":`, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockRecipeService)
			w, res := post(setupRecipeRouter(t, svc), "/recipes/generate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantErr, res.Error)
			svc.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestGenerate_ServiceErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrMissingPreferences, http.StatusBadRequest},
		{service.ErrUserNotFound, http.StatusUnauthorized},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := new(mockRecipeService)
		svc.On("GenerateRecipe", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
		w, _ := post(setupRecipeRouter(t, svc), "/recipes/generate", `{"preferences":""}`)
		assert.Equal(t, tt.status, w.Code, tt.err.Error())
	}
}

func TestIdeas_MergesIngredientInputs(t *testing.T) {
	svc := new(mockRecipeService)
	svc.On("SuggestIdeas", mock.Anything, mock.Anything, []string{"rice", "egg", "onion"}, "quick").
		Return(&service.IdeaBatch{BatchID: "b1", Ideas: []models.RecipeIdea{{Title: "A"}}}, nil)

	w, res := post(setupRecipeRouter(t, svc), "/recipes/ideas",
		`{"ingredients":["rice"],"ingredients_text":"egg\n\n onion \n","preferences":"quick"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ViewIngredients, res.View)
	assert.Equal(t, "b1", res.BatchID)
	assert.Len(t, res.Ideas, 1)
	svc.AssertExpectations(t)
}

func TestIdeas_Errors(t *testing.T) {
	svc := new(mockRecipeService)
	svc.On("SuggestIdeas", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrMissingIngredients).Once()
	svc.On("SuggestIdeas", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&service.IdeaBatch{Error: service.MsgIdeasFailed}, nil).Once()
	r := setupRecipeRouter(t, svc)

	w, res := post(r, "/recipes/ideas", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please enter some ingredients!", res.Error)

	w, res = post(r, "/recipes/ideas", `{"ingredients":["rice"]}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.MsgIdeasFailed, res.Error)
	assert.Empty(t, res.Ideas)
}

func TestExpandIdea(t *testing.T) {
	svc := new(mockRecipeService)
	svc.On("ExpandIdea", mock.Anything, mock.Anything, (*models.RecipeIdea)(nil), "b1", 2).
		Return(&models.RecipeEntry{Prompt: "Full recipe for A", RecipeData: models.RecipePayload(`{"title":"A"}`)}, nil)
	svc.On("ExpandIdea", mock.Anything, mock.Anything, (*models.RecipeIdea)(nil), "gone", 0).
		Return(nil, service.ErrIdeaNotFound)
	r := setupRecipeRouter(t, svc)

	w, res := post(r, "/recipes/ideas/expand", `{"batch_id":"b1","index":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ViewFullRecipe, res.View)
	assert.Equal(t, "A", res.Recipe.Title)

	w, _ = post(r, "/recipes/ideas/expand", `{"batch_id":"gone"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, res = post(r, "/recipes/ideas/expand", `{"batch_id":"b1","index":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Idea index must not be negative", res.Error)
}

func TestHistory(t *testing.T) {
	svc := new(mockRecipeService)
	svc.On("History", mock.Anything, mock.Anything).Return([]models.RecipeEntry{
		{ID: "2", Prompt: "soup", RecipeData: models.ErrorPayload(service.MsgRecipeFailed), CreatedAtRaw: "sometime"},
		{ID: "1", Prompt: "pasta", RecipeData: models.RecipePayload(`{"title":"Pasta"}`), CreatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.Local)},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/recipes/history", nil)
	req.Header.Set("Authorization", "Bearer t")
	w := httptest.NewRecorder()
	setupRecipeRouter(t, svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, ViewHistory, res.View)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, "soup", res.Entries[0].Title)
	assert.Equal(t, service.MsgRecipeFailed, res.Entries[0].Error)
	assert.Equal(t, "sometime", res.Entries[0].CreatedAt)
	assert.Equal(t, "Pasta", res.Entries[1].Title)
	assert.Equal(t, "2024-01-02 03:04", res.Entries[1].CreatedAt)
	assert.Empty(t, res.Message)
}

func TestNewEntryView_UnknownDate(t *testing.T) {
	v := NewEntryView(models.RecipeEntry{Prompt: "p", RecipeData: models.RecipePayload(`{"title":"T"}`)})
	assert.Equal(t, "Unknown date", v.CreatedAt)
	assert.Equal(t, "T", v.Title)
	assert.Empty(t, v.Error)
}
