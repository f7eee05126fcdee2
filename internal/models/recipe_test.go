package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPayload(t *testing.T) {
	p := ErrorPayload("Failed to generate recipe. Please try again.")
	assert.JSONEq(t, `{"error":"Failed to generate recipe. Please try again."}`, string(p))

	msg, ok := p.ErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, "Failed to generate recipe. Please try again.", msg)
	assert.True(t, p.IsError())

	_, err := p.Recipe()
	assert.Error(t, err)
}

func TestRecipePayload_Recipe(t *testing.T) {
	p := RecipePayload(`{
		"title": "Pasta",
		"description": "Quick",
		"prep_time": 10,
		"cook_time": "15 minutes",
		"servings": 2,
		"ingredients": ["200g pasta"],
		"instructions": ["Boil"],
		"nutrition_info": {"calories": 450, "protein": "12g", "carbs": "70g", "fat": "9g"},
		"shopping_list": ["pasta"],
		"extra": true
	}`)

	assert.False(t, p.IsError())
	assert.Equal(t, "Pasta", p.Title())

	r, err := p.Recipe()
	require.NoError(t, err)
	assert.Equal(t, "10", r.PrepTime.Value)
	assert.Equal(t, "15 minutes", r.CookTime.Value)
	assert.Equal(t, "2", r.Servings.String())
	assert.Equal(t, "450", r.NutritionInfo.Calories.Value)
	assert.Equal(t, "12g", r.NutritionInfo.Protein.Value)
	assert.Equal(t, []string{"pasta"}, r.ShoppingList)
}

func TestRecipePayload_JSONRoundTripKeepsUnknownFields(t *testing.T) {
	entry := RecipeEntry{Prompt: "p", RecipeData: RecipePayload(`{"title":"X","chef_note":"n"}`)}
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded RecipeEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.JSONEq(t, `{"title":"X","chef_note":"n"}`, string(decoded.RecipeData))
}

func TestRecipePayload_Scan(t *testing.T) {
	var p RecipePayload
	require.NoError(t, p.Scan([]byte(`{"title":"A"}`)))
	assert.Equal(t, "A", p.Title())

	require.NoError(t, p.Scan(`{"title":"B"}`))
	assert.Equal(t, "B", p.Title())

	assert.Error(t, p.Scan(42))

	v, err := RecipePayload(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "number input", input: `4`, expected: "4"},
		{name: "float input", input: `2.5`, expected: "2.5"},
		{name: "string input", input: `"6 servings"`, expected: "6 servings"},
		{name: "null input", input: `null`, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s FlexString
			require.NoError(t, s.UnmarshalJSON([]byte(tt.input)))
			assert.Equal(t, tt.expected, s.Value)
		})
	}

	t.Run("should reject objects", func(t *testing.T) {
		var s FlexString
		assert.Error(t, s.UnmarshalJSON([]byte(`{"Value":"8"}`)))
	})
}
