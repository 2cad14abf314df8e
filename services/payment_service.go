package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"github.com/google/uuid"
)

// PaymentRecorder создает и убирает платежные записи внутри транзакции
// регистрации. Сейчас платеж подтверждается синхронно без внешнего шлюза
// (статус сразу paid); интерфейс оставлен, чтобы реальную интеграцию можно
// было подставить, не трогая леджер.
type PaymentRecorder interface {
	Record(ctx context.Context, exec repositories.SQLExecutor, method models.PaymentMethod, amount float64) (*models.Payment, error)
	Remove(ctx context.Context, exec repositories.SQLExecutor, paymentID int) error
}

type autoConfirmRecorder struct {
	paymentRepo repositories.PaymentRepository
}

func NewAutoConfirmRecorder(paymentRepo repositories.PaymentRepository) PaymentRecorder {
	return &autoConfirmRecorder{paymentRepo: paymentRepo}
}

func (r *autoConfirmRecorder) Record(ctx context.Context, exec repositories.SQLExecutor, method models.PaymentMethod, amount float64) (*models.Payment, error) {
	payment := &models.Payment{
		Reference: uuid.NewString(),
		Method:    method,
		Status:    models.PaymentPaid,
		Amount:    amount,
	}
	if err := r.paymentRepo.Create(ctx, exec, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *autoConfirmRecorder) Remove(ctx context.Context, exec repositories.SQLExecutor, paymentID int) error {
	return r.paymentRepo.Delete(ctx, exec, paymentID)
}

// PaymentService — read-side доступ к платежам плюс уборка сирот.
type PaymentService struct {
	paymentRepo    repositories.PaymentRepository
	enrollmentRepo repositories.EnrollmentRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, enrollmentRepo repositories.EnrollmentRepository) *PaymentService {
	return &PaymentService{
		paymentRepo:    paymentRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *PaymentService) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) GetByEnrollment(ctx context.Context, enrollmentID int) (*models.Payment, error) {
	if _, err := s.enrollmentRepo.FindByID(ctx, enrollmentID); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	payment, err := s.paymentRepo.GetByEnrollment(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return payment, nil
}

// ReclaimOrphans удаляет платежи без записи. Платеж без Enrollment -
// это мусор после сбоя между двумя удалениями отмены, не валидное списание.
func (s *PaymentService) ReclaimOrphans(ctx context.Context) (int64, error) {
	n, err := s.paymentRepo.DeleteOrphaned(ctx)
	if err != nil {
		return 0, fmt.Errorf("orphaned payment reclamation failed: %w", err)
	}
	return n, nil
}
