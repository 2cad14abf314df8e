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
	ErrPlayerNotFound       = errors.New("player not found")
	ErrPlayerUserConflict   = errors.New("player already exists for this user")
	ErrPlayerAddressInvalid = errors.New("invalid address reference")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	GetByUserID(ctx context.Context, userID int) (*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (first_name, last_name, phone, address_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		player.FirstName,
		player.LastName,
		player.Phone,
		player.AddressID,
		player.UserID,
	).Scan(&player.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "players_user_id_key" {
					return ErrPlayerUserConflict
				}
			case "23503": // foreign_key_violation
				if pqErr.Constraint == "players_address_id_fkey" {
					return ErrPlayerAddressInvalid
				}
			}
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

func (r *postgresPlayerRepository) findOne(ctx context.Context, query string, arg interface{}) (*models.Player, error) {
	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.AddressID,
		&p.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to find player: %w", err)
	}
	return p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `SELECT id, first_name, last_name, phone, address_id, user_id FROM players WHERE id = $1`
	return r.findOne(ctx, query, id)
}

func (r *postgresPlayerRepository) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	query := `SELECT id, first_name, last_name, phone, address_id, user_id FROM players WHERE user_id = $1`
	return r.findOne(ctx, query, userID)
}
