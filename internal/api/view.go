package api

import (
	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// View names the screen a result belongs to
type View string

const (
	ViewLogin       View = "login"
	ViewGenerate    View = "generate"
	ViewIngredients View = "ingredients"
	ViewHistory     View = "history"
	ViewFullRecipe  View = "full_recipe"
)

const (
	createdAtDisplayLayout = "2006-01-02 15:04"
	emptyHistoryMessage    = "You haven't generated any recipes yet. Try generating a new recipe!"
)

// UserView is the public part of a user
type UserView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// EntryView is an archived recipe prepared for display
type EntryView struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Prompt    string               `json:"prompt"`
	Recipe    models.RecipePayload `json:"recipe"`
	Error     string               `json:"error,omitempty"`
	CreatedAt string               `json:"created_at"`
}

// Result is what every handler returns: the view to show and its data
type Result struct {
	View    View                `json:"view"`
	Message string              `json:"message,omitempty"`
	Error   string              `json:"error,omitempty"`
	Token   string              `json:"token,omitempty"`
	User    *UserView           `json:"user,omitempty"`
	Recipe  *EntryView          `json:"recipe,omitempty"`
	Ideas   []models.RecipeIdea `json:"ideas,omitempty"`
	BatchID string              `json:"batch_id,omitempty"`
	Entries []EntryView         `json:"entries,omitempty"`
}

// NewEntryView formats an entry for display. Failed generations keep their
// error message; a recipe without a title is shown under its prompt.
func NewEntryView(entry models.RecipeEntry) EntryView {
	v := EntryView{
		ID:        entry.ID,
		Title:     entry.RecipeData.Title(),
		Prompt:    entry.Prompt,
		Recipe:    entry.RecipeData,
		CreatedAt: formatCreatedAt(entry),
	}
	if msg, ok := entry.RecipeData.ErrorMessage(); ok {
		v.Error = msg
	}
	if v.Title == "" {
		v.Title = entry.Prompt
	}
	return v
}

func formatCreatedAt(entry models.RecipeEntry) string {
	switch {
	case !entry.CreatedAt.IsZero():
		return entry.CreatedAt.Format(createdAtDisplayLayout)
	case entry.CreatedAtRaw != "":
		return entry.CreatedAtRaw
	default:
		return "Unknown date"
	}
}
