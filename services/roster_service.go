package services

import (
	"context"
	"errors"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
	"golang.org/x/sync/errgroup"
)

type RosterService interface {
	// Roster отдает список записавшихся. Доступен только организатору инстанса.
	Roster(ctx context.Context, instanceID, actingOrganizerID int) (*models.Roster, error)
	Headcount(ctx context.Context, instanceID int) (int, error)
}

type rosterService struct {
	instanceRepo   repositories.InstanceRepository
	enrollmentRepo repositories.EnrollmentRepository
}

func NewRosterService(instanceRepo repositories.InstanceRepository, enrollmentRepo repositories.EnrollmentRepository) RosterService {
	return &rosterService{instanceRepo: instanceRepo, enrollmentRepo: enrollmentRepo}
}

func (s *rosterService) Roster(ctx context.Context, instanceID, actingOrganizerID int) (*models.Roster, error) {
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

	roster := &models.Roster{
		InstanceID: instanceID,
		MaxPlayers: instance.MaxPlayers,
	}

	// Список и счетчик независимы, забираем параллельно.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.enrollmentRepo.ListRosterByInstance(gCtx, instanceID)
		if err != nil {
			return err
		}
		roster.Entries = entries
		return nil
	})
	g.Go(func() error {
		headcount, err := s.enrollmentRepo.CountByInstance(gCtx, nil, instanceID)
		if err != nil {
			return err
		}
		roster.Headcount = headcount
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *rosterService) Headcount(ctx context.Context, instanceID int) (int, error) {
	if _, err := s.instanceRepo.GetByID(ctx, instanceID); err != nil {
		if errors.Is(err, repositories.ErrInstanceNotFound) {
			return 0, ErrInstanceNotFound
		}
		return 0, err
	}
	return s.enrollmentRepo.CountByInstance(ctx, nil, instanceID)
}
