package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
)

func testInstanceService(
	instanceRepo *mockInstanceRepo,
	tournamentRepo *mockTournamentRepo,
	cityRepo *mockCityRepo,
	enrollmentRepo *mockEnrollmentRepo,
) *instanceService {
	return &instanceService{
		instanceRepo:   instanceRepo,
		tournamentRepo: tournamentRepo,
		cityRepo:       cityRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func alwaysExists(ctx context.Context, id int) (bool, error) { return true, nil }

func validCreateInput() CreateInstanceInput {
	return CreateInstanceInput{
		TournamentID: 1,
		CityID:       2,
		Date:         time.Now().AddDate(0, 1, 0),
		Fee:          25,
		MaxPlayers:   16,
	}
}

func TestCreateInstanceValidation(t *testing.T) {
	svc := testInstanceService(&mockInstanceRepo{}, &mockTournamentRepo{}, &mockCityRepo{}, &mockEnrollmentRepo{})

	tests := []struct {
		name    string
		mutate  func(in *CreateInstanceInput)
		wantErr error
	}{
		{
			name:    "date in the past",
			mutate:  func(in *CreateInstanceInput) { in.Date = time.Now().AddDate(0, 0, -1) },
			wantErr: ErrInstanceDateInPast,
		},
		{
			name:    "zero fee",
			mutate:  func(in *CreateInstanceInput) { in.Fee = 0 },
			wantErr: ErrInstanceFeeInvalid,
		},
		{
			name:    "negative fee",
			mutate:  func(in *CreateInstanceInput) { in.Fee = -5 },
			wantErr: ErrInstanceFeeInvalid,
		},
		{
			name:    "capacity below minimum",
			mutate:  func(in *CreateInstanceInput) { in.MaxPlayers = 1 },
			wantErr: ErrInstanceCapacityInvalid,
		},
		{
			name:    "capacity above maximum",
			mutate:  func(in *CreateInstanceInput) { in.MaxPlayers = 1001 },
			wantErr: ErrInstanceCapacityInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateInput()
			tt.mutate(&input)
			_, err := svc.Create(context.Background(), 1, input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateInstanceTodayAllowed(t *testing.T) {
	instanceRepo := &mockInstanceRepo{
		createFn: func(ctx context.Context, inst *models.TournamentInstance) error {
			inst.ID = 10
			return nil
		},
		getDetailFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{ID: id}, nil
		},
	}
	svc := testInstanceService(instanceRepo,
		&mockTournamentRepo{existsFn: alwaysExists},
		&mockCityRepo{existsFn: alwaysExists},
		&mockEnrollmentRepo{})

	input := validCreateInput()
	input.Date = time.Now()

	if _, err := svc.Create(context.Background(), 1, input); err != nil {
		t.Fatalf("Create with today's date returned error: %v", err)
	}
}

func TestCreateInstanceUnknownTournament(t *testing.T) {
	svc := testInstanceService(&mockInstanceRepo{},
		&mockTournamentRepo{existsFn: func(ctx context.Context, id int) (bool, error) { return false, nil }},
		&mockCityRepo{existsFn: alwaysExists},
		&mockEnrollmentRepo{})

	_, err := svc.Create(context.Background(), 1, validCreateInput())
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want ErrTournamentNotFound", err)
	}
}

func TestUpdateInstanceForbiddenForOtherOrganizer(t *testing.T) {
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{ID: id, OrganizerID: 1}, nil
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, &mockEnrollmentRepo{})

	fee := 30.0
	_, err := svc.Update(context.Background(), 5, 2, models.TournamentInstancePatch{Fee: &fee})
	if !errors.Is(err, ErrForbiddenOperation) {
		t.Fatalf("err = %v, want ErrForbiddenOperation", err)
	}
}

func TestUpdateInstancePartialPatch(t *testing.T) {
	var updated *models.TournamentInstance
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{
				ID: id, OrganizerID: 1, TournamentID: 3, CityID: 4,
				Date: time.Now().AddDate(0, 1, 0), Fee: 25, MaxPlayers: 16,
			}, nil
		},
		updateFn: func(ctx context.Context, inst *models.TournamentInstance) error {
			updated = inst
			return nil
		},
		getDetailFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return updated, nil
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, &mockEnrollmentRepo{})

	fee := 40.0
	result, err := svc.Update(context.Background(), 5, 1, models.TournamentInstancePatch{Fee: &fee})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if result.Fee != 40 {
		t.Errorf("fee = %.2f, want 40", result.Fee)
	}
	if updated.MaxPlayers != 16 || updated.CityID != 4 {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateInstanceRejectsInvalidPatchField(t *testing.T) {
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{ID: id, OrganizerID: 1, Fee: 25, MaxPlayers: 16}, nil
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, &mockEnrollmentRepo{})

	badFee := -1.0
	_, err := svc.Update(context.Background(), 5, 1, models.TournamentInstancePatch{Fee: &badFee})
	if !errors.Is(err, ErrInstanceFeeInvalid) {
		t.Fatalf("err = %v, want ErrInstanceFeeInvalid", err)
	}
}

func TestDeleteInstanceWithEnrollments(t *testing.T) {
	deleted := false
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{ID: id, OrganizerID: 1}, nil
		},
		deleteFn: func(ctx context.Context, id int) error {
			deleted = true
			return nil
		},
	}
	enrollmentRepo := &mockEnrollmentRepo{
		countByInstanceFn: func(ctx context.Context, exec repositories.SQLExecutor, instanceID int) (int, error) {
			return 3, nil
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, enrollmentRepo)

	err := svc.Delete(context.Background(), 5, 1)

	var inUse *InstanceInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("err = %v, want *InstanceInUseError", err)
	}
	if inUse.Enrollments != 3 {
		t.Errorf("enrollments = %d, want 3", inUse.Enrollments)
	}
	if deleted {
		t.Error("instance was deleted despite active enrollments")
	}
}

func TestDeleteInstanceEmpty(t *testing.T) {
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return &models.TournamentInstance{ID: id, OrganizerID: 1}, nil
		},
		deleteFn: func(ctx context.Context, id int) error { return nil },
	}
	enrollmentRepo := &mockEnrollmentRepo{
		countByInstanceFn: func(ctx context.Context, exec repositories.SQLExecutor, instanceID int) (int, error) {
			return 0, nil
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, enrollmentRepo)

	if err := svc.Delete(context.Background(), 5, 1); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
}

func TestDeleteInstanceNotFound(t *testing.T) {
	instanceRepo := &mockInstanceRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.TournamentInstance, error) {
			return nil, repositories.ErrInstanceNotFound
		},
	}
	svc := testInstanceService(instanceRepo, &mockTournamentRepo{}, &mockCityRepo{}, &mockEnrollmentRepo{})

	err := svc.Delete(context.Background(), 99, 1)
	if !errors.Is(err, ErrInstanceNotFound) {
		t.Fatalf("err = %v, want ErrInstanceNotFound", err)
	}
}
