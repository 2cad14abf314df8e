package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"github.com/Davidshtp/chess-tournaments/storage"
	"github.com/google/uuid"
)

// MaxPhotoSizeBytes ограничивает размер фото профиля (5 MiB).
const MaxPhotoSizeBytes = 5 * 1024 * 1024

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UploadPhoto(ctx context.Context, userID int, contentType string, size int64, reader io.Reader) (*models.User, error)
	DeletePhoto(ctx context.Context, userID int) error
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
	logger   *slog.Logger
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader, logger *slog.Logger) UserService {
	return &userService{userRepo: userRepo, uploader: uploader, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	populateUserPhotoURL(user, s.uploader)
	return user, nil
}

// UploadPhoto загружает новое фото профиля и подчищает старый объект.
// Ошибка удаления старого ключа не валит операцию: запись уже указывает
// на новый объект, осиротевший файл можно убрать вручную.
func (s *userService) UploadPhoto(ctx context.Context, userID int, contentType string, size int64, reader io.Reader) (*models.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrPhotoInvalidType
	}
	if size > MaxPhotoSizeBytes {
		return nil, ErrPhotoTooLarge
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ext, err := extensionFromContentType(contentType)
	if err != nil {
		return nil, ErrPhotoInvalidType
	}
	key := fmt.Sprintf("profile-photos/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, key, contentType, io.LimitReader(reader, MaxPhotoSizeBytes)); err != nil {
		return nil, fmt.Errorf("failed to upload profile photo: %w", err)
	}

	oldKey := user.PhotoKey
	if err := s.userRepo.UpdatePhotoKey(ctx, userID, &key); err != nil {
		if delErr := s.uploader.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to clean up uploaded photo after db error",
				slog.String("key", key), slog.Any("error", delErr))
		}
		return nil, fmt.Errorf("failed to save photo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		if err := s.uploader.Delete(ctx, *oldKey); err != nil {
			s.logger.Warn("failed to delete previous profile photo",
				slog.String("key", *oldKey), slog.Any("error", err))
		}
	}

	user.PhotoKey = &key
	populateUserPhotoURL(user, s.uploader)
	return user, nil
}

func (s *userService) DeletePhoto(ctx context.Context, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.PhotoKey == nil || *user.PhotoKey == "" {
		return nil
	}

	if err := s.userRepo.UpdatePhotoKey(ctx, userID, nil); err != nil {
		return fmt.Errorf("failed to clear photo key: %w", err)
	}
	if err := s.uploader.Delete(ctx, *user.PhotoKey); err != nil {
		s.logger.Warn("failed to delete profile photo object",
			slog.String("key", *user.PhotoKey), slog.Any("error", err))
	}
	return nil
}
