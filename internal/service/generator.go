package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// Messages returned in place of a result when generation fails
const (
	MsgRecipeFailed = "Failed to generate recipe. Please try again."
	MsgIdeasFailed  = "Failed to generate recipe ideas. Please try again."
)

const recipePromptTemplate = `Create a recipe with the following specifications:
- Preferences: %s
- Dietary Restrictions: %s
- Servings: %d
- Additional Information: %s

Please format your response as a JSON object with the following structure:
{
    "title": "Recipe Title",
    "description": "Brief description of the dish",
    "prep_time": "Preparation time in minutes",
    "cook_time": "Cooking time in minutes",
    "servings": %d,
    "ingredients": [
        "Ingredient 1 with quantity",
        "Ingredient 2 with quantity"
    ],
    "instructions": [
        "Step 1",
        "Step 2"
    ],
    "nutrition_info": {
        "calories": "per serving",
        "protein": "in grams",
        "carbs": "in grams",
        "fat": "in grams"
    },
    "shopping_list": [
        "Categorized shopping list items"
    ]
}
`

const ideasPromptTemplate = `Create three recipe ideas using mainly these ingredients:
%s

Additional context:
- Preferences: %s
- Dietary Restrictions: %s
- Servings: %d

Format your response as a JSON array with 3 recipe objects, each having this structure:
{
    "title": "Recipe Title",
    "description": "Brief description",
    "ingredients_required": ["Ingredients from the provided list"],
    "additional_ingredients_needed": ["Any extra ingredients needed"],
    "difficulty": "Easy/Medium/Hard",
    "estimated_time": "Total preparation and cooking time"
}
`

// RestrictionsText renders dietary restrictions for a prompt
func RestrictionsText(restrictions []string) string {
	if len(restrictions) == 0 {
		return "None"
	}
	return strings.Join(restrictions, ", ")
}

// RecipePrompt builds the prompt for a full recipe. Inputs are embedded
// verbatim.
func RecipePrompt(preferences string, restrictions []string, servings int, notes string) string {
	return fmt.Sprintf(recipePromptTemplate, preferences, RestrictionsText(restrictions), servings, notes, servings)
}

// IdeasPrompt builds the prompt for three ingredient-driven ideas
func IdeasPrompt(ingredients []string, preferences string, restrictions []string, servings int) string {
	return fmt.Sprintf(ideasPromptTemplate, strings.Join(ingredients, ", "), preferences, RestrictionsText(restrictions), servings)
}

// IdeaResult holds either the parsed ideas or the failure message
type IdeaResult struct {
	Ideas []models.RecipeIdea `json:"ideas,omitempty"`
	Error string              `json:"error,omitempty"`
}

// RecipeGenerator turns user inputs into prompts and model replies into
// recipe payloads. It never returns an error: every failure becomes the
// uniform error marker and the cause is logged.
type RecipeGenerator struct {
	llm    TextGenerator
	logger *zap.Logger
}

func NewRecipeGenerator(llm TextGenerator, logger *zap.Logger) *RecipeGenerator {
	return &RecipeGenerator{llm: llm, logger: logger}
}

// GenerateFromPreferences asks for one complete recipe
func (g *RecipeGenerator) GenerateFromPreferences(ctx context.Context, preferences string, restrictions []string, servings int, notes string) models.RecipePayload {
	reply, err := g.llm.Generate(ctx, RecipePrompt(preferences, restrictions, servings, notes))
	if err != nil {
		g.logger.Error("recipe generation failed", zap.Error(err))
		return models.ErrorPayload(MsgRecipeFailed)
	}

	payload, err := parseRecipe(reply)
	if err != nil {
		g.logger.Error("error parsing model response",
			zap.Error(err),
			zap.String("reply", reply))
		return models.ErrorPayload(MsgRecipeFailed)
	}
	return payload
}

// GenerateFromIngredients asks for three recipe ideas built around the
// given ingredients.
func (g *RecipeGenerator) GenerateFromIngredients(ctx context.Context, ingredients []string, preferences string, restrictions []string, servings int) IdeaResult {
	reply, err := g.llm.Generate(ctx, IdeasPrompt(ingredients, preferences, restrictions, servings))
	if err != nil {
		g.logger.Error("recipe idea generation failed", zap.Error(err))
		return IdeaResult{Error: MsgIdeasFailed}
	}

	var ideas []models.RecipeIdea
	if err := json.Unmarshal([]byte(ExtractJSON(reply)), &ideas); err != nil {
		g.logger.Error("error parsing model response",
			zap.Error(err),
			zap.String("reply", reply))
		return IdeaResult{Error: MsgIdeasFailed}
	}
	if ideas == nil {
		ideas = []models.RecipeIdea{}
	}
	return IdeaResult{Ideas: ideas}
}

// ExpandIdea turns a chosen idea into a complete recipe
func (g *RecipeGenerator) ExpandIdea(ctx context.Context, idea models.RecipeIdea, restrictions []string, servings int) models.RecipePayload {
	preferences := fmt.Sprintf("Recipe for %s: %s", idea.Title, idea.Description)
	return g.GenerateFromPreferences(ctx, preferences, restrictions, servings, "")
}

// parseRecipe extracts the reply's JSON and requires it to be an object
func parseRecipe(reply string) (models.RecipePayload, error) {
	raw := ExtractJSON(reply)

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil, fmt.Errorf("reply is not a JSON object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("reply is not a JSON object: null")
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return nil, err
	}
	return models.RecipePayload(buf.Bytes()), nil
}
