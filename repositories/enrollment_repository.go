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
	ErrEnrollmentNotFound        = errors.New("enrollment not found")
	ErrEnrollmentConflict        = errors.New("enrollment already linked to this instance")
	ErrEnrollmentPlayerInvalid   = errors.New("invalid player reference")
	ErrEnrollmentInstanceInvalid = errors.New("invalid tournament instance reference")
)

type EnrollmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, enrollment *models.Enrollment) error
	SetPaymentID(ctx context.Context, exec SQLExecutor, enrollmentID, paymentID int) error
	LinkInstance(ctx context.Context, exec SQLExecutor, enrollmentID, instanceID int) error
	FindByID(ctx context.Context, id int) (*models.Enrollment, error)
	ExistsForPlayerAndInstance(ctx context.Context, exec SQLExecutor, playerID, instanceID int) (bool, error)
	CountByInstance(ctx context.Context, exec SQLExecutor, instanceID int) (int, error)
	DeleteLinks(ctx context.Context, exec SQLExecutor, enrollmentID int) error
	Delete(ctx context.Context, exec SQLExecutor, enrollmentID int) error
	ListByPlayer(ctx context.Context, playerID int) ([]models.EnrollmentDetail, error)
	ListRosterByInstance(ctx context.Context, instanceID int) ([]models.RosterEntry, error)
}

type postgresEnrollmentRepository struct {
	db *sql.DB
}

func NewPostgresEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &postgresEnrollmentRepository{db: db}
}

func (r *postgresEnrollmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresEnrollmentRepository) Create(ctx context.Context, exec SQLExecutor, e *models.Enrollment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO enrollments (player_id, payment_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, e.PlayerID, e.PaymentID).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "enrollments_player_id_fkey" {
				return ErrEnrollmentPlayerInvalid
			}
		}
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) SetPaymentID(ctx context.Context, exec SQLExecutor, enrollmentID, paymentID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE enrollments SET payment_id = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, paymentID, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to link payment to enrollment: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) LinkInstance(ctx context.Context, exec SQLExecutor, enrollmentID, instanceID int) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO enrollment_instances (enrollment_id, instance_id) VALUES ($1, $2)`
	_, err := executor.ExecContext(ctx, query, enrollmentID, instanceID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return ErrEnrollmentConflict
			case "23503":
				if pqErr.Constraint == "enrollment_instances_instance_id_fkey" {
					return ErrEnrollmentInstanceInvalid
				}
			}
		}
		return fmt.Errorf("failed to link enrollment to instance: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) FindByID(ctx context.Context, id int) (*models.Enrollment, error) {
	query := `SELECT id, player_id, payment_id, created_at FROM enrollments WHERE id = $1`
	e := &models.Enrollment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.PlayerID, &e.PaymentID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	return e, nil
}

func (r *postgresEnrollmentRepository) ExistsForPlayerAndInstance(ctx context.Context, exec SQLExecutor, playerID, instanceID int) (bool, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM enrollment_instances ei
			JOIN enrollments e ON e.id = ei.enrollment_id
			WHERE e.player_id = $1 AND ei.instance_id = $2
		)`
	var exists bool
	if err := executor.QueryRowContext(ctx, query, playerID, instanceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing enrollment: %w", err)
	}
	return exists, nil
}

func (r *postgresEnrollmentRepository) CountByInstance(ctx context.Context, exec SQLExecutor, instanceID int) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM enrollment_instances WHERE instance_id = $1`
	var count int
	if err := executor.QueryRowContext(ctx, query, instanceID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count enrollments for instance: %w", err)
	}
	return count, nil
}

func (r *postgresEnrollmentRepository) DeleteLinks(ctx context.Context, exec SQLExecutor, enrollmentID int) error {
	executor := r.getExecutor(exec)
	// Нулевое число строк — не ошибка: отмену можно безопасно повторять.
	_, err := executor.ExecContext(ctx, `DELETE FROM enrollment_instances WHERE enrollment_id = $1`, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment instance links: %w", err)
	}
	return nil
}

func (r *postgresEnrollmentRepository) Delete(ctx context.Context, exec SQLExecutor, enrollmentID int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return checkAffectedRows(result, ErrEnrollmentNotFound)
}

func (r *postgresEnrollmentRepository) ListByPlayer(ctx context.Context, playerID int) ([]models.EnrollmentDetail, error) {
	query := `
		SELECT
			e.id, ei.instance_id, t.name, o.name, c.name,
			ti.date, ti.fee, e.created_at,
			COALESCE(p.status::text, $2), COALESCE(p.method::text, $3)
		FROM enrollments e
		JOIN enrollment_instances ei ON ei.enrollment_id = e.id
		JOIN tournament_instances ti ON ti.id = ei.instance_id
		JOIN tournaments t ON t.id = ti.tournament_id
		JOIN organizers o ON o.id = ti.organizer_id
		JOIN cities c ON c.id = ti.city_id
		LEFT JOIN payments p ON p.id = e.payment_id
		WHERE e.player_id = $1
		ORDER BY ti.date ASC, e.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, playerID, models.NoPaymentStatus, models.NoPaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for player: %w", err)
	}
	defer rows.Close()

	details := make([]models.EnrollmentDetail, 0)
	for rows.Next() {
		var d models.EnrollmentDetail
		if scanErr := rows.Scan(
			&d.EnrollmentID, &d.InstanceID, &d.TournamentName, &d.OrganizerName, &d.CityName,
			&d.Date, &d.Fee, &d.EnrolledAt,
			&d.PaymentStatus, &d.PaymentMethod,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", scanErr)
		}
		details = append(details, d)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

func (r *postgresEnrollmentRepository) ListRosterByInstance(ctx context.Context, instanceID int) ([]models.RosterEntry, error) {
	query := `
		SELECT
			e.id, pl.id, pl.first_name || ' ' || pl.last_name, u.email, pl.phone,
			e.created_at,
			COALESCE(p.status::text, $2), COALESCE(p.method::text, $3), COALESCE(p.amount, 0)
		FROM enrollment_instances ei
		JOIN enrollments e ON e.id = ei.enrollment_id
		JOIN players pl ON pl.id = e.player_id
		JOIN users u ON u.id = pl.user_id
		LEFT JOIN payments p ON p.id = e.payment_id
		WHERE ei.instance_id = $1
		ORDER BY e.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, instanceID, models.NoPaymentStatus, models.NoPaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster for instance: %w", err)
	}
	defer rows.Close()

	entries := make([]models.RosterEntry, 0)
	for rows.Next() {
		var re models.RosterEntry
		if scanErr := rows.Scan(
			&re.EnrollmentID, &re.PlayerID, &re.PlayerName, &re.Email, &re.Phone,
			&re.EnrolledAt,
			&re.PaymentStatus, &re.PaymentMethod, &re.Amount,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", scanErr)
		}
		entries = append(entries, re)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
