package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Davidshtp/chess-tournaments/models"
)

// Справочники городов и адресов. Здесь только чтение: управление
// справочными данными — не задача этого сервиса.

var (
	ErrCityNotFound    = errors.New("city not found")
	ErrAddressNotFound = errors.New("address not found")
)

type CityRepository interface {
	GetByID(ctx context.Context, id int) (*models.City, error)
	Exists(ctx context.Context, id int) (bool, error)
}

type AddressRepository interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type postgresCityRepository struct {
	db *sql.DB
}

func NewPostgresCityRepository(db *sql.DB) CityRepository {
	return &postgresCityRepository{db: db}
}

func (r *postgresCityRepository) GetByID(ctx context.Context, id int) (*models.City, error) {
	query := `SELECT id, name, country_id FROM cities WHERE id = $1`
	c := &models.City{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.CountryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("failed to find city: %w", err)
	}
	return c, nil
}

func (r *postgresCityRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cities WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check city existence: %w", err)
	}
	return exists, nil
}

type postgresAddressRepository struct {
	db *sql.DB
}

func NewPostgresAddressRepository(db *sql.DB) AddressRepository {
	return &postgresAddressRepository{db: db}
}

func (r *postgresAddressRepository) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM addresses WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check address existence: %w", err)
	}
	return exists, nil
}
