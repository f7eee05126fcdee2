package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// GormUserStore keeps users in the users table
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// GetUser returns the user with the given email or ErrUserNotFound
func (s *GormUserStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a user, failing with ErrUserExists if the email is taken
func (s *GormUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if _, err := s.GetUser(ctx, user.Email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// ListUsers returns every stored user ordered by email
func (s *GormUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("email").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GormArchive keeps entries in the recipe_entries table
type GormArchive struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormArchive(db *gorm.DB) *GormArchive {
	return &GormArchive{db: db, now: time.Now}
}

// Append inserts a new entry with a fresh ID
func (a *GormArchive) Append(ctx context.Context, email, prompt string, payload models.RecipePayload) (*models.RecipeEntry, error) {
	entry := &models.RecipeEntry{
		ID:         uuid.New().String(),
		UserEmail:  email,
		Prompt:     prompt,
		RecipeData: payload,
		CreatedAt:  a.now(),
	}
	if err := a.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Insert stores a prepared entry as-is, keeping its ID and timestamp.
// Used when importing an existing archive.
func (a *GormArchive) Insert(ctx context.Context, entry *models.RecipeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to save recipe entry: %w", err)
	}
	return nil
}

// Exists reports whether an entry with the given ID is stored
func (a *GormArchive) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := a.db.WithContext(ctx).Model(&models.RecipeEntry{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check recipe entry: %w", err)
	}
	return count > 0, nil
}

// ListFor returns the user's entries newest first. Imported entries without
// a usable timestamp have a zero created_at and come last.
func (a *GormArchive) ListFor(ctx context.Context, email string) ([]models.RecipeEntry, error) {
	entries := []models.RecipeEntry{}
	err := a.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe entries: %w", err)
	}
	return entries, nil
}
