package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Davidshtp/chess-tournaments/models"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, payment *models.Payment) error
	GetByID(ctx context.Context, id int) (*models.Payment, error)
	GetByEnrollment(ctx context.Context, enrollmentID int) (*models.Payment, error)
	// Delete — no-op для отсутствующего платежа: отмена записи должна
	// безопасно переживать повтор.
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	// DeleteOrphaned убирает платежи, на которые не ссылается ни одна запись.
	// Такие строки может оставить только сбой между двумя удалениями отмены.
	DeleteOrphaned(ctx context.Context) (int64, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPaymentRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Payment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO payments (reference, method, status, amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, p.Reference, p.Method, p.Status, p.Amount).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) scanPayment(row *sql.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(&p.ID, &p.Reference, &p.Method, &p.Status, &p.Amount, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return p, nil
}

func (r *postgresPaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	query := `SELECT id, reference, method, status, amount, created_at FROM payments WHERE id = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresPaymentRepository) GetByEnrollment(ctx context.Context, enrollmentID int) (*models.Payment, error) {
	query := `
		SELECT p.id, p.reference, p.method, p.status, p.amount, p.created_at
		FROM payments p
		JOIN enrollments e ON e.payment_id = p.id
		WHERE e.id = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, enrollmentID))
}

func (r *postgresPaymentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	if _, err := executor.ExecContext(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) DeleteOrphaned(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM payments p
		WHERE NOT EXISTS (
			SELECT 1 FROM enrollments e WHERE e.payment_id = p.id
		)`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned payments: %w", err)
	}
	return result.RowsAffected()
}
