package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
)

const (
	minInstancePlayers = 2
	maxInstancePlayers = 1000
)

// CreateInstanceInput — входные данные создания инстанса турнира.
type CreateInstanceInput struct {
	TournamentID int       `json:"tournament_id"`
	CityID       int       `json:"city_id"`
	Date         time.Time `json:"date"`
	Fee          float64   `json:"fee"`
	MaxPlayers   int       `json:"max_players"`
}

type InstanceService interface {
	Create(ctx context.Context, organizerID int, input CreateInstanceInput) (*models.TournamentInstance, error)
	Get(ctx context.Context, id int) (*models.TournamentInstance, error)
	List(ctx context.Context, filter repositories.ListInstancesFilter) ([]models.TournamentInstance, error)
	Update(ctx context.Context, instanceID, actingOrganizerID int, patch models.TournamentInstancePatch) (*models.TournamentInstance, error)
	Delete(ctx context.Context, instanceID, actingOrganizerID int) error
}

type instanceService struct {
	instanceRepo   repositories.InstanceRepository
	tournamentRepo repositories.TournamentRepository
	cityRepo       repositories.CityRepository
	enrollmentRepo repositories.EnrollmentRepository
}

func NewInstanceService(
	instanceRepo repositories.InstanceRepository,
	tournamentRepo repositories.TournamentRepository,
	cityRepo repositories.CityRepository,
	enrollmentRepo repositories.EnrollmentRepository,
) InstanceService {
	return &instanceService{
		instanceRepo:   instanceRepo,
		tournamentRepo: tournamentRepo,
		cityRepo:       cityRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// validateInstanceDate: дата не раньше сегодняшнего дня (сравнение по дате,
// не по моменту - инстанс "сегодня вечером" создать можно).
func validateInstanceDate(date time.Time) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.UTC().Truncate(24 * time.Hour).Before(today) {
		return ErrInstanceDateInPast
	}
	return nil
}

func validateInstanceFee(fee float64) error {
	if fee <= 0 {
		return ErrInstanceFeeInvalid
	}
	return nil
}

func validateInstanceCapacity(maxPlayers int) error {
	if maxPlayers < minInstancePlayers || maxPlayers > maxInstancePlayers {
		return ErrInstanceCapacityInvalid
	}
	return nil
}

func (s *instanceService) Create(ctx context.Context, organizerID int, input CreateInstanceInput) (*models.TournamentInstance, error) {
	if err := validateInstanceDate(input.Date); err != nil {
		return nil, err
	}
	if err := validateInstanceFee(input.Fee); err != nil {
		return nil, err
	}
	if err := validateInstanceCapacity(input.MaxPlayers); err != nil {
		return nil, err
	}

	exists, err := s.tournamentRepo.Exists(ctx, input.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check tournament: %w", err)
	}
	if !exists {
		return nil, ErrTournamentNotFound
	}

	cityExists, err := s.cityRepo.Exists(ctx, input.CityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check city: %w", err)
	}
	if !cityExists {
		return nil, ErrCityNotFound
	}

	instance := &models.TournamentInstance{
		TournamentID: input.TournamentID,
		OrganizerID:  organizerID,
		CityID:       input.CityID,
		Date:         input.Date,
		Fee:          input.Fee,
		MaxPlayers:   input.MaxPlayers,
	}
	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInstanceInvalidTournament):
			return nil, ErrTournamentNotFound
		case errors.Is(err, repositories.ErrInstanceInvalidOrganizer):
			return nil, ErrOrganizerNotFound
		case errors.Is(err, repositories.ErrInstanceInvalidCity):
			return nil, ErrCityNotFound
		}
		return nil, fmt.Errorf("failed to create tournament instance: %w", err)
	}
	return s.instanceRepo.GetDetail(ctx, instance.ID)
}

func (s *instanceService) Get(ctx context.Context, id int) (*models.TournamentInstance, error) {
	instance, err := s.instanceRepo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	return instance, nil
}

func (s *instanceService) List(ctx context.Context, filter repositories.ListInstancesFilter) ([]models.TournamentInstance, error) {
	return s.instanceRepo.List(ctx, filter)
}

// Update применяет частичное обновление. Каждое присланное поле проходит
// ту же валидацию, что и при создании; чужой инстанс трогать нельзя.
func (s *instanceService) Update(ctx context.Context, instanceID, actingOrganizerID int, patch models.TournamentInstancePatch) (*models.TournamentInstance, error) {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, err
	}
	if instance.OrganizerID != actingOrganizerID {
		return nil, ErrForbiddenOperation
	}

	if patch.Date != nil {
		if err := validateInstanceDate(*patch.Date); err != nil {
			return nil, err
		}
		instance.Date = *patch.Date
	}
	if patch.Fee != nil {
		if err := validateInstanceFee(*patch.Fee); err != nil {
			return nil, err
		}
		instance.Fee = *patch.Fee
	}
	if patch.MaxPlayers != nil {
		if err := validateInstanceCapacity(*patch.MaxPlayers); err != nil {
			return nil, err
		}
		instance.MaxPlayers = *patch.MaxPlayers
	}
	if patch.TournamentID != nil {
		exists, err := s.tournamentRepo.Exists(ctx, *patch.TournamentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check tournament: %w", err)
		}
		if !exists {
			return nil, ErrTournamentNotFound
		}
		instance.TournamentID = *patch.TournamentID
	}
	if patch.CityID != nil {
		exists, err := s.cityRepo.Exists(ctx, *patch.CityID)
		if err != nil {
			return nil, fmt.Errorf("failed to check city: %w", err)
		}
		if !exists {
			return nil, ErrCityNotFound
		}
		instance.CityID = *patch.CityID
	}

	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("failed to update tournament instance: %w", err)
	}
	return s.instanceRepo.GetDetail(ctx, instanceID)
}

// Delete отклоняет удаление инстанса с живыми записями, называя их число.
func (s *instanceService) Delete(ctx context.Context, instanceID, actingOrganizerID int) error {
	instance, err := s.instanceRepo.GetByID(ctx, instanceID)
	if err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return ErrInstanceNotFound
		}
		return err
	}
	if instance.OrganizerID != actingOrganizerID {
		return ErrForbiddenOperation
	}

	headcount, err := s.enrollmentRepo.CountByInstance(ctx, nil, instanceID)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}
	if headcount > 0 {
		return &InstanceInUseError{Enrollments: headcount}
	}

	if err := s.instanceRepo.Delete(ctx, instanceID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInstanceNotFound):
			return ErrInstanceNotFound
		case errors.Is(err, repositories.ErrInstanceInUse):
			// Гонка с параллельной регистрацией между проверкой и удалением.
			return &InstanceInUseError{Enrollments: 1}
		}
		return fmt.Errorf("failed to delete tournament instance: %w", err)
	}
	return nil
}
