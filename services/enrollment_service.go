package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
)

// RegistrationResult — ответ на успешную регистрацию: id записи,
// новый headcount инстанса и сводка по платежу.
type RegistrationResult struct {
	EnrollmentID int             `json:"enrollment_id"`
	InstanceID   int             `json:"instance_id"`
	Headcount    int             `json:"headcount"`
	EnrolledAt   time.Time       `json:"enrolled_at"`
	Payment      *models.Payment `json:"payment"`
}

type EnrollmentService interface {
	Register(ctx context.Context, playerID, instanceID int, method models.PaymentMethod, actingPlayerID int) (*RegistrationResult, error)
	Cancel(ctx context.Context, enrollmentID, actingPlayerID int) error
	ListForPlayer(ctx context.Context, playerID, actingPlayerID int) ([]models.EnrollmentDetail, error)
}

type enrollmentService struct {
	enrollmentRepo repositories.EnrollmentRepository
	instanceRepo   repositories.InstanceRepository
	playerRepo     repositories.PlayerRepository
	recorder       PaymentRecorder
	runTx          txRunner
}

func NewEnrollmentService(
	db *sql.DB,
	enrollmentRepo repositories.EnrollmentRepository,
	instanceRepo repositories.InstanceRepository,
	playerRepo repositories.PlayerRepository,
	recorder PaymentRecorder,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		instanceRepo:   instanceRepo,
		playerRepo:     playerRepo,
		recorder:       recorder,
		runTx:          newTxRunner(db),
	}
}

// Register записывает игрока на инстанс турнира и создает платеж.
//
// Проверки уникальности и вместимости и обе вставки идут в одной транзакции
// под блокировкой строки инстанса (SELECT ... FOR UPDATE): два конкурирующих
// запроса на один инстанс сериализуются, перепроверка вместимости происходит
// уже под блокировкой. Регистрации на разные инстансы друг друга не ждут.
func (s *enrollmentService) Register(ctx context.Context, playerID, instanceID int, method models.PaymentMethod, actingPlayerID int) (*RegistrationResult, error) {
	if actingPlayerID != playerID {
		return nil, ErrForbiddenOperation
	}
	if !method.Valid() {
		return nil, ErrPaymentMethodInvalid
	}

	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}

	var result *RegistrationResult
	err := s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		result, err = s.registerLocked(ctx, exec, playerID, instanceID, method)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// registerLocked — тело транзакции регистрации, выполняется под блокировкой
// строки инстанса.
func (s *enrollmentService) registerLocked(ctx context.Context, exec repositories.SQLExecutor, playerID, instanceID int, method models.PaymentMethod) (*RegistrationResult, error) {
	instance, err := s.instanceRepo.GetByIDForUpdate(ctx, exec, instanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("failed to lock instance row: %w", err)
	}

	enrolled, err := s.enrollmentRepo.ExistsForPlayerAndInstance(ctx, exec, playerID, instanceID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	headcount, err := s.enrollmentRepo.CountByInstance(ctx, exec, instanceID)
	if err != nil {
		return nil, err
	}
	if headcount >= instance.MaxPlayers {
		return nil, &TournamentFullError{Headcount: headcount, MaxPlayers: instance.MaxPlayers}
	}

	enrollment := &models.Enrollment{PlayerID: playerID}
	if err := s.enrollmentRepo.Create(ctx, exec, enrollment); err != nil {
		return nil, err
	}

	// Сумма фиксируется по взносу инстанса на момент записи; последующие
	// изменения fee существующие платежи не трогают.
	payment, err := s.recorder.Record(ctx, exec, method, instance.Fee)
	if err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.SetPaymentID(ctx, exec, enrollment.ID, payment.ID); err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.LinkInstance(ctx, exec, enrollment.ID, instanceID); err != nil {
		if errors.Is(err, repositories.ErrEnrollmentConflict) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	return &RegistrationResult{
		EnrollmentID: enrollment.ID,
		InstanceID:   instanceID,
		Headcount:    headcount + 1,
		EnrolledAt:   enrollment.CreatedAt,
		Payment:      payment,
	}, nil
}

// Cancel удаляет запись и ее платеж одной транзакцией. Отсутствующий платеж
// не ошибка: отмена обязана переживать повтор.
func (s *enrollmentService) Cancel(ctx context.Context, enrollmentID, actingPlayerID int) error {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrEnrollmentNotFound) {
			return ErrEnrollmentNotFound
		}
		return fmt.Errorf("failed to find enrollment: %w", err)
	}
	if enrollment.PlayerID != actingPlayerID {
		return ErrForbiddenOperation
	}

	return s.runTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.enrollmentRepo.DeleteLinks(ctx, exec, enrollmentID); err != nil {
			return err
		}
		if err := s.enrollmentRepo.Delete(ctx, exec, enrollmentID); err != nil {
			if errors.Is(err, repositories.ErrEnrollmentNotFound) {
				return ErrEnrollmentNotFound
			}
			return err
		}
		if enrollment.PaymentID != nil {
			if err := s.recorder.Remove(ctx, exec, *enrollment.PaymentID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *enrollmentService) ListForPlayer(ctx context.Context, playerID, actingPlayerID int) ([]models.EnrollmentDetail, error) {
	if actingPlayerID != playerID {
		return nil, ErrForbiddenOperation
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check player: %w", err)
	}
	return s.enrollmentRepo.ListByPlayer(ctx, playerID)
}
