package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"golang.org/x/crypto/bcrypt"
)

func testAuthService(
	userRepo *mockUserRepo,
	playerRepo *mockPlayerRepo,
	organizerRepo *mockOrganizerRepo,
	addressRepo *mockAddressRepo,
) *authService {
	return &authService{
		userRepo:      userRepo,
		playerRepo:    playerRepo,
		organizerRepo: organizerRepo,
		addressRepo:   addressRepo,
		runTx:         passthroughTx,
	}
}

func validPlayerInput() RegisterPlayerInput {
	return RegisterPlayerInput{
		Email:     "magnus@example.com",
		Password:  "secret123",
		FirstName: "Magnus",
		LastName:  "Carlsen",
		Phone:     "+4712345678",
		AddressID: 1,
	}
}

func TestRegisterPlayerSuccess(t *testing.T) {
	var createdUser *models.User
	var createdPlayer *models.Player

	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
			user.ID = 42
			createdUser = user
			return nil
		},
	}
	playerRepo := &mockPlayerRepo{
		createFn: func(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
			player.ID = 7
			createdPlayer = player
			return nil
		},
	}
	svc := testAuthService(userRepo, playerRepo, &mockOrganizerRepo{}, &mockAddressRepo{existsFn: alwaysExists})

	player, err := svc.RegisterPlayer(context.Background(), validPlayerInput())
	if err != nil {
		t.Fatalf("RegisterPlayer returned error: %v", err)
	}
	if createdUser.Role != models.RolePlayer || !createdUser.Active {
		t.Errorf("user created with role=%q active=%v", createdUser.Role, createdUser.Active)
	}
	if createdUser.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}
	if createdPlayer.UserID != 42 {
		t.Errorf("player.UserID = %d, want 42", createdPlayer.UserID)
	}
	if player.User == nil || player.User.PasswordHash != "" {
		t.Error("returned player must carry user without password hash")
	}
}

func TestRegisterPlayerShortPassword(t *testing.T) {
	svc := testAuthService(&mockUserRepo{}, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{})

	input := validPlayerInput()
	input.Password = "12345"
	_, err := svc.RegisterPlayer(context.Background(), input)
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
}

func TestRegisterPlayerUnknownAddress(t *testing.T) {
	addressRepo := &mockAddressRepo{
		existsFn: func(ctx context.Context, id int) (bool, error) { return false, nil },
	}
	svc := testAuthService(&mockUserRepo{}, &mockPlayerRepo{}, &mockOrganizerRepo{}, addressRepo)

	_, err := svc.RegisterPlayer(context.Background(), validPlayerInput())
	if !errors.Is(err, ErrAddressNotFound) {
		t.Fatalf("err = %v, want ErrAddressNotFound", err)
	}
}

func TestRegisterPlayerEmailConflict(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
			return repositories.ErrUserEmailConflict
		},
	}
	svc := testAuthService(userRepo, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{existsFn: alwaysExists})

	_, err := svc.RegisterPlayer(context.Background(), validPlayerInput())
	if !errors.Is(err, ErrEmailConflict) {
		t.Fatalf("err = %v, want ErrEmailConflict", err)
	}
}

func TestRegisterOrganizerRequiresName(t *testing.T) {
	svc := testAuthService(&mockUserRepo{}, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{})

	_, err := svc.RegisterOrganizer(context.Background(), RegisterOrganizerInput{
		Email:     "club@example.com",
		Password:  "secret123",
		Name:      "  ",
		AddressID: 1,
	})
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func loginUser(t *testing.T, password string, role models.UserRole, active bool) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return &models.User{
		ID:           42,
		Email:        "magnus@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
}

func TestLoginSuccessPlayer(t *testing.T) {
	user := loginUser(t, "secret123", models.RolePlayer, true)
	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
	}
	playerRepo := &mockPlayerRepo{
		getByUserIDFn: func(ctx context.Context, userID int) (*models.Player, error) {
			return &models.Player{ID: 7, UserID: userID}, nil
		},
	}
	svc := testAuthService(userRepo, playerRepo, &mockOrganizerRepo{}, &mockAddressRepo{})

	identity, err := svc.Login(context.Background(), models.Credentials{Email: user.Email, Password: "secret123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if identity.PlayerID == nil || *identity.PlayerID != 7 {
		t.Errorf("identity.PlayerID = %v, want 7", identity.PlayerID)
	}
	if identity.OrganizerID != nil {
		t.Error("player identity must not carry organizer id")
	}
	if identity.User.PasswordHash != "" {
		t.Error("identity leaks password hash")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := loginUser(t, "secret123", models.RolePlayer, true)
	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
	}
	svc := testAuthService(userRepo, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: user.Email, Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			return nil, repositories.ErrUserNotFound
		},
	}
	svc := testAuthService(userRepo, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: "nobody@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := loginUser(t, "secret123", models.RoleOrganizer, false)
	userRepo := &mockUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) { return user, nil },
	}
	svc := testAuthService(userRepo, &mockPlayerRepo{}, &mockOrganizerRepo{}, &mockAddressRepo{})

	_, err := svc.Login(context.Background(), models.Credentials{Email: user.Email, Password: "secret123"})
	if !errors.Is(err, ErrUserInactive) {
		t.Fatalf("err = %v, want ErrUserInactive", err)
	}
}
