package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/models"
	"github.com/pageza/cooking-assistant/backend/internal/store"
	"github.com/pageza/cooking-assistant/backend/internal/types"
)

// Input problems reported back to the user
var (
	ErrMissingPreferences = errors.New("Please enter what you'd like to cook!")
	ErrMissingIngredients = errors.New("Please enter some ingredients!")
	ErrMissingIdea        = errors.New("Please choose a recipe idea")
)

// IdeaBatch is the result of an ingredients request. BatchID is empty when
// the batch could not be cached.
type IdeaBatch struct {
	BatchID string
	Ideas   []models.RecipeIdea
	Error   string
}

// RecipeService runs a generation and archives the outcome for the
// session's user.
type RecipeService struct {
	generator *RecipeGenerator
	archive   store.RecipeArchive
	users     store.UserStore
	ideas     IdeaCache
	logger    *zap.Logger
}

func NewRecipeService(generator *RecipeGenerator, archive store.RecipeArchive, users store.UserStore, ideas IdeaCache, logger *zap.Logger) *RecipeService {
	if ideas == nil {
		ideas = NoopIdeaCache{}
	}
	return &RecipeService{
		generator: generator,
		archive:   archive,
		users:     users,
		ideas:     ideas,
		logger:    logger,
	}
}

// ParseIngredients splits newline separated text into trimmed,
// non-empty ingredients.
func ParseIngredients(text string) []string {
	return cleanList(strings.Split(text, "\n"))
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GenerateRecipe generates a recipe from free-text preferences and archives
// it. A failed generation is archived too, as its error marker.
func (s *RecipeService) GenerateRecipe(ctx context.Context, sess types.Session, preferences, notes string) (*models.RecipeEntry, error) {
	if strings.TrimSpace(preferences) == "" {
		return nil, ErrMissingPreferences
	}
	if err := s.ensureUser(ctx, sess.Email); err != nil {
		return nil, err
	}

	payload := s.generator.GenerateFromPreferences(ctx, preferences, sess.DietaryRestrictions, sess.Servings, notes)
	return s.save(ctx, sess.Email, preferences, payload)
}

// SuggestIdeas asks for three ideas around the given ingredients. Ideas are
// not archived; the batch is cached so one can be expanded by reference.
func (s *RecipeService) SuggestIdeas(ctx context.Context, sess types.Session, ingredients []string, preferences string) (*IdeaBatch, error) {
	ingredients = cleanList(ingredients)
	if len(ingredients) == 0 {
		return nil, ErrMissingIngredients
	}

	result := s.generator.GenerateFromIngredients(ctx, ingredients, preferences, sess.DietaryRestrictions, sess.Servings)
	if result.Error != "" {
		return &IdeaBatch{Error: result.Error}, nil
	}

	batch := &IdeaBatch{Ideas: result.Ideas}
	batchID, err := s.ideas.SaveBatch(ctx, sess.Email, result.Ideas)
	if err != nil {
		s.logger.Warn("failed to cache recipe ideas", zap.String("email", sess.Email), zap.Error(err))
	} else {
		batch.BatchID = batchID
	}
	return batch, nil
}

// ExpandIdea generates the full recipe for an idea and archives it. The
// idea is used as given, or looked up by batch ID and index when nil.
func (s *RecipeService) ExpandIdea(ctx context.Context, sess types.Session, idea *models.RecipeIdea, batchID string, index int) (*models.RecipeEntry, error) {
	if idea == nil {
		if batchID == "" {
			return nil, ErrMissingIdea
		}
		found, err := s.ideas.GetIdea(ctx, sess.Email, batchID, index)
		if err != nil {
			return nil, err
		}
		idea = found
	}
	if strings.TrimSpace(idea.Title) == "" {
		return nil, ErrMissingIdea
	}
	if err := s.ensureUser(ctx, sess.Email); err != nil {
		return nil, err
	}

	payload := s.generator.ExpandIdea(ctx, *idea, sess.DietaryRestrictions, sess.Servings)
	return s.save(ctx, sess.Email, fmt.Sprintf("Full recipe for %s", idea.Title), payload)
}

// History returns the user's archived entries, newest first
func (s *RecipeService) History(ctx context.Context, sess types.Session) ([]models.RecipeEntry, error) {
	entries, err := s.archive.ListFor(ctx, sess.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe history: %w", err)
	}
	return entries, nil
}

func (s *RecipeService) ensureUser(ctx context.Context, email string) error {
	if _, err := s.users.GetUser(ctx, email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	return nil
}

func (s *RecipeService) save(ctx context.Context, email, prompt string, payload models.RecipePayload) (*models.RecipeEntry, error) {
	entry, err := s.archive.Append(ctx, email, prompt, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	s.logger.Info("recipe archived",
		zap.String("email", email),
		zap.String("entry_id", entry.ID),
		zap.Bool("failed", payload.IsError()))
	return entry, nil
}
