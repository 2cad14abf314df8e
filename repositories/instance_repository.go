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
	ErrInstanceNotFound          = errors.New("tournament instance not found")
	ErrInstanceInvalidTournament = errors.New("invalid tournament reference")
	ErrInstanceInvalidOrganizer  = errors.New("invalid organizer reference")
	ErrInstanceInvalidCity       = errors.New("invalid city reference")
	ErrInstanceInUse             = errors.New("tournament instance is in use (enrollments exist)")
)

type ListInstancesFilter struct {
	OrganizerID       *int
	ExcludingPlayerID *int
	Limit             int
	Offset            int
}

type InstanceRepository interface {
	Create(ctx context.Context, instance *models.TournamentInstance) error
	GetByID(ctx context.Context, id int) (*models.TournamentInstance, error)
	// GetByIDForUpdate захватывает блокировку строки инстанса (SELECT ... FOR UPDATE),
	// сериализуя конкурирующие регистрации на один и тот же инстанс.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error)
	GetDetail(ctx context.Context, id int) (*models.TournamentInstance, error)
	List(ctx context.Context, filter ListInstancesFilter) ([]models.TournamentInstance, error)
	Update(ctx context.Context, instance *models.TournamentInstance) error
	Delete(ctx context.Context, id int) error
}

type postgresInstanceRepository struct {
	db *sql.DB
}

func NewPostgresInstanceRepository(db *sql.DB) InstanceRepository {
	return &postgresInstanceRepository{db: db}
}

func (r *postgresInstanceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresInstanceRepository) Create(ctx context.Context, inst *models.TournamentInstance) error {
	query := `
		INSERT INTO tournament_instances (tournament_id, organizer_id, city_id, date, fee, max_players)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		inst.TournamentID, inst.OrganizerID, inst.CityID,
		inst.Date, inst.Fee, inst.MaxPlayers,
	).Scan(&inst.ID, &inst.CreatedAt)

	return r.handleInstanceError(err)
}

func (r *postgresInstanceRepository) scanInstance(row *sql.Row) (*models.TournamentInstance, error) {
	inst := &models.TournamentInstance{}
	err := row.Scan(
		&inst.ID, &inst.TournamentID, &inst.OrganizerID, &inst.CityID,
		&inst.Date, &inst.Fee, &inst.MaxPlayers, &inst.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return inst, nil
}

func (r *postgresInstanceRepository) GetByID(ctx context.Context, id int) (*models.TournamentInstance, error) {
	query := `
		SELECT id, tournament_id, organizer_id, city_id, date, fee, max_players, created_at
		FROM tournament_instances
		WHERE id = $1`
	return r.scanInstance(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresInstanceRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.TournamentInstance, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, organizer_id, city_id, date, fee, max_players, created_at
		FROM tournament_instances
		WHERE id = $1
		FOR UPDATE`
	return r.scanInstance(executor.QueryRowContext(ctx, query, id))
}

const instanceDetailSelect = `
	SELECT
		ti.id, ti.tournament_id, ti.organizer_id, ti.city_id,
		ti.date, ti.fee, ti.max_players, ti.created_at,
		t.name, o.name, c.name,
		COALESCE(cnt.headcount, 0)
	FROM tournament_instances ti
	JOIN tournaments t ON ti.tournament_id = t.id
	JOIN organizers o ON ti.organizer_id = o.id
	JOIN cities c ON ti.city_id = c.id
	LEFT JOIN (
		SELECT instance_id, COUNT(*) AS headcount
		FROM enrollment_instances
		GROUP BY instance_id
	) cnt ON cnt.instance_id = ti.id`

func scanInstanceDetail(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.TournamentInstance, error) {
	inst := &models.TournamentInstance{}
	var tournamentName, organizerName, cityName string
	err := scanner.Scan(
		&inst.ID, &inst.TournamentID, &inst.OrganizerID, &inst.CityID,
		&inst.Date, &inst.Fee, &inst.MaxPlayers, &inst.CreatedAt,
		&tournamentName, &organizerName, &cityName,
		&inst.Headcount,
	)
	if err != nil {
		return nil, err
	}
	inst.Tournament = &models.Tournament{ID: inst.TournamentID, Name: tournamentName}
	inst.Organizer = &models.Organizer{ID: inst.OrganizerID, Name: organizerName}
	inst.City = &models.City{ID: inst.CityID, Name: cityName}
	return inst, nil
}

func (r *postgresInstanceRepository) GetDetail(ctx context.Context, id int) (*models.TournamentInstance, error) {
	query := instanceDetailSelect + ` WHERE ti.id = $1`
	inst, err := scanInstanceDetail(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("failed to get instance detail: %w", err)
	}
	return inst, nil
}

func (r *postgresInstanceRepository) List(ctx context.Context, filter ListInstancesFilter) ([]models.TournamentInstance, error) {
	query := instanceDetailSelect + ` WHERE 1=1`
	args := []interface{}{}
	argID := 1

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND ti.organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.ExcludingPlayerID != nil {
		// Убираем инстансы, на которые игрок уже записан.
		query += fmt.Sprintf(` AND ti.id NOT IN (
			SELECT ei.instance_id
			FROM enrollment_instances ei
			JOIN enrollments e ON e.id = ei.enrollment_id
			WHERE e.player_id = $%d
		)`, argID)
		args = append(args, *filter.ExcludingPlayerID)
		argID++
	}

	query += " ORDER BY ti.date ASC, ti.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament instances: %w", err)
	}
	defer rows.Close()

	instances := make([]models.TournamentInstance, 0)
	for rows.Next() {
		inst, scanErr := scanInstanceDetail(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan instance row: %w", scanErr)
		}
		instances = append(instances, *inst)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *postgresInstanceRepository) Update(ctx context.Context, inst *models.TournamentInstance) error {
	query := `
		UPDATE tournament_instances SET
			tournament_id = $1,
			city_id = $2,
			date = $3,
			fee = $4,
			max_players = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		inst.TournamentID, inst.CityID, inst.Date, inst.Fee, inst.MaxPlayers,
		inst.ID,
	)
	if err != nil {
		return r.handleInstanceError(err)
	}
	return checkAffectedRows(result, ErrInstanceNotFound)
}

func (r *postgresInstanceRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM tournament_instances WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleInstanceError(err)
	}
	return checkAffectedRows(result, ErrInstanceNotFound)
}

func (r *postgresInstanceRepository) handleInstanceError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "tournament_instances_tournament_id_fkey":
				return ErrInstanceInvalidTournament
			case "tournament_instances_organizer_id_fkey":
				return ErrInstanceInvalidOrganizer
			case "tournament_instances_city_id_fkey":
				return ErrInstanceInvalidCity
			default:
				// FK со стороны enrollment_instances: инстанс удерживается записями.
				return ErrInstanceInUse
			}
		}
	}
	return err
}
