package services

import (
	"errors"
	"fmt"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password must be at least 6 characters")
	ErrInstanceDateInPast      = errors.New("tournament date cannot be in the past")
	ErrInstanceFeeInvalid      = errors.New("tournament fee must be greater than zero")
	ErrInstanceCapacityInvalid = errors.New("tournament max players must be between 2 and 1000")
	ErrPaymentMethodInvalid    = errors.New("invalid payment method")
	ErrPhotoInvalidType        = errors.New("photo must be an image")
	ErrPhotoTooLarge           = errors.New("photo exceeds the maximum allowed size")

	// Конфликты
	ErrEmailConflict          = errors.New("email address is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrAlreadyEnrolled        = errors.New("already enrolled in this tournament")

	// Аутентификация и авторизация
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is deactivated")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrOrganizerNotFound  = errors.New("organizer not found")
	ErrCityNotFound       = errors.New("city not found")
	ErrAddressNotFound    = errors.New("address not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrInstanceNotFound   = errors.New("tournament instance not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrPaymentNotFound    = errors.New("payment not found")
)

// TournamentFullError — отказ по вместимости. Несет текущий headcount,
// чтобы клиент видел причину и не ретраил.
type TournamentFullError struct {
	Headcount  int
	MaxPlayers int
}

func (e *TournamentFullError) Error() string {
	return fmt.Sprintf("tournament full: %d of %d places taken", e.Headcount, e.MaxPlayers)
}

// InstanceInUseError — инстанс нельзя удалить, пока на него есть записи.
type InstanceInUseError struct {
	Enrollments int
}

func (e *InstanceInUseError) Error() string {
	return fmt.Sprintf("tournament instance has %d active enrollments, cannot delete", e.Enrollments)
}
