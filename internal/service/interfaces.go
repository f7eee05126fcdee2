package service

import (
	"context"

	"github.com/pageza/cooking-assistant/backend/internal/models"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password, confirm string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, email string) (*models.User, error)
	GenerateToken(user *models.User) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GenerateRecipe(ctx context.Context, sess types.Session, preferences, notes string) (*models.RecipeEntry, error)
	SuggestIdeas(ctx context.Context, sess types.Session, ingredients []string, preferences string) (*IdeaBatch, error)
	ExpandIdea(ctx context.Context, sess types.Session, idea *models.RecipeIdea, batchID string, index int) (*models.RecipeEntry, error)
	History(ctx context.Context, sess types.Session) ([]models.RecipeEntry, error)
}

var (
	_ IAuthService   = (*AuthService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
	_ TextGenerator  = (*GeminiClient)(nil)
	_ IdeaCache      = (*RedisIdeaCache)(nil)
	_ IdeaCache      = NoopIdeaCache{}
)
