package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/lib/pq"
)

var (
	ErrOrganizerNotFound       = errors.New("organizer not found")
	ErrOrganizerUserConflict   = errors.New("organizer already exists for this user")
	ErrOrganizerAddressInvalid = errors.New("invalid address reference")
)

type OrganizerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, organizer *models.Organizer) error
	GetByID(ctx context.Context, id int) (*models.Organizer, error)
	GetByUserID(ctx context.Context, userID int) (*models.Organizer, error)
}

type postgresOrganizerRepository struct {
	db *sql.DB
}

func NewPostgresOrganizerRepository(db *sql.DB) OrganizerRepository {
	return &postgresOrganizerRepository{db: db}
}

func (r *postgresOrganizerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresOrganizerRepository) Create(ctx context.Context, exec SQLExecutor, organizer *models.Organizer) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO organizers (name, address_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		organizer.Name,
		organizer.AddressID,
		organizer.UserID,
	).Scan(&organizer.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "organizers_user_id_key" {
					return ErrOrganizerUserConflict
				}
			case "23503":
				if pqErr.Constraint == "organizers_address_id_fkey" {
					return ErrOrganizerAddressInvalid
				}
			}
		}
		return fmt.Errorf("failed to create organizer: %w", err)
	}
	return nil
}

func (r *postgresOrganizerRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Organizer, error) {
	o := &models.Organizer{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&o.ID,
		&o.Name,
		&o.AddressID,
		&o.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrganizerNotFound
		}
		return nil, fmt.Errorf("failed to find organizer: %w", err)
	}
	return o, nil
}

func (r *postgresOrganizerRepository) GetByID(ctx context.Context, id int) (*models.Organizer, error) {
	query := `SELECT id, name, address_id, user_id FROM organizers WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresOrganizerRepository) GetByUserID(ctx context.Context, userID int) (*models.Organizer, error) {
	query := `SELECT id, name, address_id, user_id FROM organizers WHERE user_id = $1`
	return r.findOne(ctx, query, userID)
}
