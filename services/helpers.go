package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"github.com/Davidshtp/chess-tournaments/storage"
)

// txRunner выполняет fn внутри одной транзакции. Сервисы держат его полем,
// чтобы в тестах подменять на прямой вызов fn без БД.
type txRunner func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error

func newTxRunner(db *sql.DB) txRunner {
	return func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
}

func populateUserPhotoURL(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.PhotoKey != nil && *user.PhotoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.PhotoKey)
		if url != "" {
			user.PhotoURL = &url
		}
	}
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
