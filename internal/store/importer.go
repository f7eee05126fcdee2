package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/cooking-assistant/backend/internal/models"
)

// ImportStats counts what ImportFileData copied and skipped
type ImportStats struct {
	Users          int
	SkippedUsers   int
	Entries        int
	SkippedEntries int
}

// importedEntryID maps a file entry to a stable database ID so running the
// import twice does not duplicate entries.
func importedEntryID(email, fileID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(email+"/"+fileID)).String()
}

// ImportFileData copies users and their archived recipes from the file
// stores into the database stores. Users and entries that already exist
// are skipped.
func ImportFileData(ctx context.Context, srcUsers *FileUserStore, srcArchive *FileArchive, dstUsers UserStore, dstArchive *GormArchive, logger *zap.Logger) (*ImportStats, error) {
	users, err := srcUsers.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ImportStats{}
	for i := range users {
		user := users[i]
		err := dstUsers.CreateUser(ctx, &user)
		switch {
		case err == nil:
			stats.Users++
		case errors.Is(err, ErrUserExists):
			stats.SkippedUsers++
		default:
			return stats, fmt.Errorf("failed to import user %s: %w", user.Email, err)
		}

		// A shared directory holds documents of both users. Only documents
		// that record their owner can be attributed.
		shared := sharesDirName(users, user.Email)
		if shared {
			logger.Warn("archive directory shared with another user, importing owned entries only",
				zap.String("email", user.Email), zap.String("dir", UserDirName(user.Email)))
		}
		entries, err := srcArchive.list(ctx, user.Email, shared)
		if err != nil {
			return stats, err
		}
		for _, entry := range entries {
			row := models.RecipeEntry{
				ID:         importedEntryID(user.Email, entry.ID),
				UserEmail:  user.Email,
				Prompt:     entry.Prompt,
				RecipeData: entry.RecipeData,
				CreatedAt:  entry.CreatedAt,

				CreatedAtRaw: entry.CreatedAtRaw,
			}
			exists, err := dstArchive.Exists(ctx, row.ID)
			if err != nil {
				return stats, err
			}
			if exists {
				stats.SkippedEntries++
				continue
			}
			if err := dstArchive.Insert(ctx, &row); err != nil {
				return stats, fmt.Errorf("failed to import entry %s for %s: %w", entry.ID, user.Email, err)
			}
			stats.Entries++
		}

		logger.Info("imported user", zap.String("email", user.Email), zap.Int("entries", len(entries)))
	}
	return stats, nil
}
