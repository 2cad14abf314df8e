package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"golang.org/x/crypto/bcrypt"
)

type RegisterPlayerInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	AddressID int    `json:"address_id"`
}

type RegisterOrganizerInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	AddressID int    `json:"address_id"`
}

// Identity — снимок аутентифицированного пользователя, который уходит в JWT.
type Identity struct {
	User        *models.User `json:"user"`
	PlayerID    *int         `json:"player_id,omitempty"`
	OrganizerID *int         `json:"organizer_id,omitempty"`
}

type AuthService interface {
	RegisterPlayer(ctx context.Context, input RegisterPlayerInput) (*models.Player, error)
	RegisterOrganizer(ctx context.Context, input RegisterOrganizerInput) (*models.Organizer, error)
	Login(ctx context.Context, creds models.Credentials) (*Identity, error)
}

type authService struct {
	userRepo      repositories.UserRepository
	playerRepo    repositories.PlayerRepository
	organizerRepo repositories.OrganizerRepository
	addressRepo   repositories.AddressRepository
	runTx         txRunner
}

func NewAuthService(
	db *sql.DB,
	userRepo repositories.UserRepository,
	playerRepo repositories.PlayerRepository,
	organizerRepo repositories.OrganizerRepository,
	addressRepo repositories.AddressRepository,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		playerRepo:    playerRepo,
		organizerRepo: organizerRepo,
		addressRepo:   addressRepo,
		runTx:         newTxRunner(db),
	}
}

func (s *authService) validateSignup(ctx context.Context, email, password string, addressID int) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidationFailed)
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	exists, err := s.addressRepo.Exists(ctx, addressID)
	if err != nil {
		return fmt.Errorf("failed to check address: %w", err)
	}
	if !exists {
		return ErrAddressNotFound
	}
	return nil
}

func (s *authService) RegisterPlayer(ctx context.Context, input RegisterPlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidationFailed)
	}
	if err := s.validateSignup(ctx, input.Email, input.Password, input.AddressID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RolePlayer,
		Active:       true,
	}
	player := &models.Player{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		AddressID: input.AddressID,
	}

	// Пользователь и профиль игрока создаются одной транзакцией.
	err = s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.userRepo.Create(ctx, exec, user); err != nil {
			if errors.Is(err, repositories.ErrUserEmailConflict) {
				return ErrEmailConflict
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		player.UserID = user.ID
		if err := s.playerRepo.Create(ctx, exec, player); err != nil {
			return fmt.Errorf("failed to create player profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	player.User = user
	return player, nil
}

func (s *authService) RegisterOrganizer(ctx context.Context, input RegisterOrganizerInput) (*models.Organizer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: organizer name is required", ErrValidationFailed)
	}
	if err := s.validateSignup(ctx, input.Email, input.Password, input.AddressID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleOrganizer,
		Active:       true,
	}
	organizer := &models.Organizer{
		Name:      input.Name,
		AddressID: input.AddressID,
	}

	err = s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.userRepo.Create(ctx, exec, user); err != nil {
			if errors.Is(err, repositories.ErrUserEmailConflict) {
				return ErrEmailConflict
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		organizer.UserID = user.ID
		if err := s.organizerRepo.Create(ctx, exec, organizer); err != nil {
			return fmt.Errorf("failed to create organizer profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	organizer.User = user
	return organizer, nil
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (*Identity, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !user.Active {
		return nil, ErrUserInactive
	}

	identity := &Identity{User: user}
	switch user.Role {
	case models.RolePlayer:
		player, err := s.playerRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load player profile: %w", err)
		}
		identity.PlayerID = &player.ID
	case models.RoleOrganizer:
		organizer, err := s.organizerRepo.GetByUserID(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load organizer profile: %w", err)
		}
		identity.OrganizerID = &organizer.ID
	}

	user.PasswordHash = ""
	return identity, nil
}
