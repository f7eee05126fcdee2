package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// FileArchive stores one JSON document per entry under
// <root>/<email with @ replaced>/<YYYYMMDD_HHMMSS>.json.
type FileArchive struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

// NewFileArchive returns an archive rooted at dir
func NewFileArchive(dir string, logger *zap.Logger) *FileArchive {
	return &FileArchive{root: dir, logger: logger, now: time.Now}
}

// Append writes a new document. An existing file is never replaced: when
// two entries land in the same second the later one gets a numeric suffix.
func (a *FileArchive) Append(ctx context.Context, email, prompt string, payload models.RecipePayload) (*models.RecipeEntry, error) {
	dir := filepath.Join(a.root, UserDirName(email))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create recipe directory: %w", err)
	}

	created := a.now()
	data, err := json.MarshalIndent(archiveDocument{
		Email:      email,
		Prompt:     prompt,
		RecipeData: payload,
		CreatedAt:  formatTimestamp(created),
	}, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipe entry: %w", err)
	}

	stamp := created.Format(entryStampLayout)
	for n := 0; ; n++ {
		id := stamp
		if n > 0 {
			id = fmt.Sprintf("%s_%d", stamp, n)
		}

		f, err := os.OpenFile(filepath.Join(dir, id+".json"), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create recipe file: %w", err)
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			return nil, fmt.Errorf("failed to write recipe file: %w", errors.Join(werr, cerr))
		}

		return &models.RecipeEntry{
			ID:         id,
			UserEmail:  email,
			Prompt:     prompt,
			RecipeData: payload,
			CreatedAt:  created,
		}, nil
	}
}

// ListFor returns the user's entries newest first. A user without a
// directory has no history. Documents recorded for another email are
// skipped.
func (a *FileArchive) ListFor(ctx context.Context, email string) ([]models.RecipeEntry, error) {
	return a.list(ctx, email, false)
}

// list reads the user's directory. With strict set, documents without a
// recorded owner are skipped too.
func (a *FileArchive) list(ctx context.Context, email string, strict bool) ([]models.RecipeEntry, error) {
	dir := filepath.Join(a.root, UserDirName(email))
	files, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []models.RecipeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe directory: %w", err)
	}

	entries := make([]datedEntry, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read recipe file %s: %w", file.Name(), err)
		}

		var doc archiveDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			a.logger.Warn("skipping unreadable recipe file", zap.String("path", path), zap.Error(err))
			continue
		}
		if !doc.ownedBy(email, strict) {
			continue
		}
		entries = append(entries, doc.toEntry(strings.TrimSuffix(file.Name(), ".json"), email))
	}

	return sortNewestFirst(entries), nil
}
