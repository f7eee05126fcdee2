// Package store persists user credentials and the per-user recipe archive.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

var (
	ErrUserExists   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// ErrDirNameTaken means another user's email maps to the same archive
// directory.
var ErrDirNameTaken = errors.New("email shares an archive directory with an existing user")

// UserStore is the credential store
type UserStore interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RecipeArchive is the append-only per-user recipe history
type RecipeArchive interface {
	Append(ctx context.Context, email, prompt string, payload models.RecipePayload) (*models.RecipeEntry, error)
	ListFor(ctx context.Context, email string) ([]models.RecipeEntry, error)
}

// entryStampLayout names archive documents by generation time
const entryStampLayout = "20060102_150405"

// timestampLayouts are accepted when reading created_at values. The last
// one matches documents written by the earlier Python tooling.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UserDirName maps an email to its archive directory or key prefix. The
// mapping is not one-to-one: x_at_y@z.com and x@y_at_z.com share a name.
func UserDirName(email string) string {
	return strings.ReplaceAll(email, "@", "_at_")
}

// DirNameTaken reports whether a stored user other than email already owns
// email's archive directory.
func DirNameTaken(ctx context.Context, users UserStore, email string) (bool, error) {
	existing, err := users.ListUsers(ctx)
	if err != nil {
		return false, err
	}
	return sharesDirName(existing, email), nil
}

func sharesDirName(users []models.User, email string) bool {
	name := UserDirName(email)
	for _, u := range users {
		if u.Email != email && UserDirName(u.Email) == name {
			return true
		}
	}
	return false
}

func formatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// archiveDocument is the on-disk and object-storage shape of one entry
type archiveDocument struct {
	Email      string               `json:"email,omitempty"`
	Prompt     string               `json:"prompt"`
	RecipeData models.RecipePayload `json:"recipe_data"`
	CreatedAt  string               `json:"created_at"`
}

// ownedBy reports whether the document belongs to email. Documents written
// before the email field existed have no owner recorded; they are accepted
// unless strict is set.
func (d archiveDocument) ownedBy(email string, strict bool) bool {
	if d.Email == "" {
		return !strict
	}
	return d.Email == email
}

type datedEntry struct {
	entry models.RecipeEntry
	dated bool
}

func (d archiveDocument) toEntry(id, email string) datedEntry {
	created, ok := parseTimestamp(d.CreatedAt)
	raw := ""
	if !ok {
		raw = d.CreatedAt
	}
	return datedEntry{
		entry: models.RecipeEntry{
			ID:         id,
			UserEmail:  email,
			Prompt:     d.Prompt,
			RecipeData: d.RecipeData,
			CreatedAt:  created,

			CreatedAtRaw: raw,
		},
		dated: ok,
	}
}

// sortNewestFirst orders entries by creation time descending. Entries whose
// timestamp could not be parsed go last, by ID descending.
func sortNewestFirst(entries []datedEntry) []models.RecipeEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.dated != b.dated {
			return a.dated
		}
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.After(b.entry.CreatedAt)
		}
		return a.entry.ID > b.entry.ID
	})
	out := make([]models.RecipeEntry, len(entries))
	for i := range entries {
		out[i] = entries[i].entry
	}
	return out
}
