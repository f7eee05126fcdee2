package types

import (
	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// RegisterRequest represents the request body for user registration.
// Field presence is checked by the auth service so the messages match
// the ones users already know.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful login
type AuthResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Settings are the choices sent with every generation request.
// Restrictions are checked by NormalizeRestrictions.
type Settings struct {
	Servings            int      `json:"servings" binding:"omitempty,min=1,max=20"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

// GenerateRecipeRequest asks for a full recipe from free-text preferences
type GenerateRecipeRequest struct {
	Settings
	Preferences     string `json:"preferences"`
	AdditionalNotes string `json:"additional_notes"`
}

// RecipeIdeasRequest asks for three ideas built around on-hand ingredients.
// Ingredients may be sent as a list or as newline-separated text.
type RecipeIdeasRequest struct {
	Settings
	Ingredients     []string `json:"ingredients"`
	IngredientsText string   `json:"ingredients_text"`
	Preferences     string   `json:"preferences"`
}

// ExpandIdeaRequest promotes one idea to a full recipe. The idea is either
// sent inline or referenced by the batch it was returned in.
type ExpandIdeaRequest struct {
	Settings
	Idea    *models.RecipeIdea `json:"idea"`
	BatchID string             `json:"batch_id"`
	Index   *int               `json:"index" binding:"omitempty,min=0"`
}
