package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RecipeEntry is one saved generation in a user's history
type RecipeEntry struct {
	ID         string        `gorm:"type:varchar(64);primarykey" json:"id"`
	UserEmail  string        `gorm:"type:varchar(255);index;not null" json:"user_email"`
	Prompt     string        `gorm:"type:text;not null" json:"prompt"`
	RecipeData RecipePayload `gorm:"type:text;not null" json:"recipe_data"`
	CreatedAt  time.Time     `gorm:"index;autoCreateTime:false" json:"created_at"`

	// CreatedAtRaw keeps an archived timestamp that could not be parsed.
	// CreatedAt is zero for such entries so they sort last.
	CreatedAtRaw string `gorm:"type:text" json:"-"`
}

// RecipePayload holds the JSON object returned by the generation service,
// or the error marker {"error": "..."}. It is stored verbatim so fields the
// model adds beyond the requested shape are kept.
type RecipePayload json.RawMessage

// ErrorPayload builds the uniform failure marker
func ErrorPayload(message string) RecipePayload {
	data, _ := json.Marshal(map[string]string{"error": message})
	return RecipePayload(data)
}

// ErrorMessage returns the error marker, if the payload carries one
func (p RecipePayload) ErrorMessage() (string, bool) {
	var marker struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(p, &marker); err != nil || marker.Error == nil {
		return "", false
	}
	return *marker.Error, true
}

// IsError reports whether the payload is a failure marker
func (p RecipePayload) IsError() bool {
	_, ok := p.ErrorMessage()
	return ok
}

// Recipe decodes the payload into the typed recipe shape
func (p RecipePayload) Recipe() (*Recipe, error) {
	if msg, ok := p.ErrorMessage(); ok {
		return nil, fmt.Errorf("recipe payload is an error marker: %s", msg)
	}
	var r Recipe
	if err := json.Unmarshal(p, &r); err != nil {
		return nil, fmt.Errorf("failed to decode recipe payload: %w", err)
	}
	return &r, nil
}

// Title returns the recipe title, or an empty string for markers and
// payloads without one.
func (p RecipePayload) Title() string {
	var t struct {
		Title string `json:"title"`
	}
	_ = json.Unmarshal(p, &t)
	return t.Title
}

// MarshalJSON implements json.Marshaler
func (p RecipePayload) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return p, nil
}

// UnmarshalJSON implements json.Unmarshaler
func (p *RecipePayload) UnmarshalJSON(data []byte) error {
	if p == nil {
		return fmt.Errorf("models.RecipePayload: UnmarshalJSON on nil pointer")
	}
	*p = append((*p)[:0], data...)
	return nil
}

// Value implements the driver.Valuer interface
func (p RecipePayload) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "{}", nil
	}
	return string(p), nil
}

// Scan implements the sql.Scanner interface
func (p *RecipePayload) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = nil
	case []byte:
		*p = append(RecipePayload(nil), v...)
	case string:
		*p = RecipePayload(v)
	default:
		return fmt.Errorf("unsupported type %T for RecipePayload", value)
	}
	return nil
}

// Recipe is the typed view of a complete generated recipe
type Recipe struct {
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	PrepTime      FlexString    `json:"prep_time"`
	CookTime      FlexString    `json:"cook_time"`
	Servings      FlexString    `json:"servings"`
	Ingredients   []string      `json:"ingredients"`
	Instructions  []string      `json:"instructions"`
	NutritionInfo NutritionInfo `json:"nutrition_info"`
	ShoppingList  []string      `json:"shopping_list"`
}

// NutritionInfo is the per-serving nutrition summary
type NutritionInfo struct {
	Calories FlexString `json:"calories"`
	Protein  FlexString `json:"protein"`
	Carbs    FlexString `json:"carbs"`
	Fat      FlexString `json:"fat"`
}

// RecipeIdea is a lightweight candidate from the ingredients path. Ideas are
// not persisted unless expanded into a full recipe.
type RecipeIdea struct {
	Title                       string     `json:"title"`
	Description                 string     `json:"description"`
	IngredientsRequired         []string   `json:"ingredients_required"`
	AdditionalIngredientsNeeded []string   `json:"additional_ingredients_needed"`
	Difficulty                  string     `json:"difficulty"`
	EstimatedTime               FlexString `json:"estimated_time"`
}

// FlexString accepts either a JSON string or a JSON number. Models are
// inconsistent about "4" vs 4 for servings, times and nutrition values.
type FlexString struct {
	Value string
}

func (s FlexString) String() string {
	return s.Value
}

func (s FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Value)
}

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		s.Value = ""
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		s.Value = strconv.FormatFloat(num, 'f', -1, 64)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Value = str
		return nil
	}

	return fmt.Errorf("invalid value %s: want string or number", string(data))
}
