package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

type userRecord struct {
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    string `json:"created_at"`
}

// FileUserStore keeps every user in one JSON object keyed by email. Each
// write rewrites the whole file. The mutex only serializes writers inside
// this process.
type FileUserStore struct {
	path string
	mu   sync.Mutex
}

// NewFileUserStore returns a store backed by the file at path. The file is
// created on first registration.
func NewFileUserStore(path string) *FileUserStore {
	return &FileUserStore{path: path}
}

// GetUser returns the user with the given email or ErrUserNotFound
func (s *FileUserStore) GetUser(ctx context.Context, email string) (*models.User, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return rec.toUser(email), nil
}

// CreateUser adds a user, failing with ErrUserExists if the email is taken
func (s *FileUserStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := users[user.Email]; ok {
		return ErrUserExists
	}

	users[user.Email] = userRecord{
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		CreatedAt:    formatTimestamp(user.CreatedAt),
	}
	return s.save(users)
}

// ListUsers returns every stored user ordered by email
func (s *FileUserStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for email, rec := range users {
		out = append(out, *rec.toUser(email))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *FileUserStore) load() (map[string]userRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]userRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	users := map[string]userRecord{}
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", s.path, err)
	}
	return users, nil
}

func (s *FileUserStore) save(users map[string]userRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(users, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	return nil
}

func (r userRecord) toUser(email string) *models.User {
	created, _ := parseTimestamp(r.CreatedAt)
	return &models.User{
		Email:        email,
		Name:         r.Name,
		PasswordHash: r.PasswordHash,
		CreatedAt:    created,
	}
}
