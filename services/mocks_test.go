package services

import (
	"context"
	"errors"

	"github.com/Davidshtp/chess-tournaments/models"
	"github.com/Davidshtp/chess-tournaments/repositories"
)

// Моки на функциональных полях: тест задает только то, что ему нужно,
// незаданный метод падает с понятной ошибкой.

var errMockNotConfigured = errors.New("mock: method not configured")

// passthroughTx подменяет txRunner: выполняет fn напрямую, без БД.
func passthroughTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type mockEnrollmentRepo struct {
	createFn          func(ctx context.Context, exec repositories.SQLExecutor, e *models.Enrollment) error
	setPaymentIDFn    func(ctx context.Context, exec repositories.SQLExecutor, enrollmentID, paymentID int) error
	linkInstanceFn    func(ctx context.Context, exec repositories.SQLExecutor, enrollmentID, instanceID int) error
	findByIDFn        func(ctx context.Context, id int) (*models.Enrollment, error)
	existsFn          func(ctx context.Context, exec repositories.SQLExecutor, playerID, instanceID int) (bool, error)
	countByInstanceFn func(ctx context.Context, exec repositories.SQLExecutor, instanceID int) (int, error)
	deleteLinksFn     func(ctx context.Context, exec repositories.SQLExecutor, enrollmentID int) error
	deleteFn          func(ctx context.Context, exec repositories.SQLExecutor, enrollmentID int) error
	listByPlayerFn    func(ctx context.Context, playerID int) ([]models.EnrollmentDetail, error)
	listRosterFn      func(ctx context.Context, instanceID int) ([]models.RosterEntry, error)
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, e *models.Enrollment) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, exec, e)
}

func (m *mockEnrollmentRepo) SetPaymentID(ctx context.Context, exec repositories.SQLExecutor, enrollmentID, paymentID int) error {
	if m.setPaymentIDFn == nil {
		return errMockNotConfigured
	}
	return m.setPaymentIDFn(ctx, exec, enrollmentID, paymentID)
}

func (m *mockEnrollmentRepo) LinkInstance(ctx context.Context, exec repositories.SQLExecutor, enrollmentID, instanceID int) error {
	if m.linkInstanceFn == nil {
		return errMockNotConfigured
	}
	return m.linkInstanceFn(ctx, exec, enrollmentID, instanceID)
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id int) (*models.Enrollment, error) {
	if m.findByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.findByIDFn(ctx, id)
}

func (m *mockEnrollmentRepo) ExistsForPlayerAndInstance(ctx context.Context, exec repositories.SQLExecutor, playerID, instanceID int) (bool, error) {
	if m.existsFn == nil {
		return false, errMockNotConfigured
	}
	return m.existsFn(ctx, exec, playerID, instanceID)
}

func (m *mockEnrollmentRepo) CountByInstance(ctx context.Context, exec repositories.SQLExecutor, instanceID int) (int, error) {
	if m.countByInstanceFn == nil {
		return 0, errMockNotConfigured
	}
	return m.countByInstanceFn(ctx, exec, instanceID)
}

func (m *mockEnrollmentRepo) DeleteLinks(ctx context.Context, exec repositories.SQLExecutor, enrollmentID int) error {
	if m.deleteLinksFn == nil {
		return errMockNotConfigured
	}
	return m.deleteLinksFn(ctx, exec, enrollmentID)
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, enrollmentID int) error {
	if m.deleteFn == nil {
		return errMockNotConfigured
	}
	return m.deleteFn(ctx, exec, enrollmentID)
}

func (m *mockEnrollmentRepo) ListByPlayer(ctx context.Context, playerID int) ([]models.EnrollmentDetail, error) {
	if m.listByPlayerFn == nil {
		return nil, errMockNotConfigured
	}
	return m.listByPlayerFn(ctx, playerID)
}

func (m *mockEnrollmentRepo) ListRosterByInstance(ctx context.Context, instanceID int) ([]models.RosterEntry, error) {
	if m.listRosterFn == nil {
		return nil, errMockNotConfigured
	}
	return m.listRosterFn(ctx, instanceID)
}

type mockInstanceRepo struct {
	createFn           func(ctx context.Context, instance *models.TournamentInstance) error
	getByIDFn          func(ctx context.Context, id int) (*models.TournamentInstance, error)
	getByIDForUpdateFn func(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentInstance, error)
	getDetailFn        func(ctx context.Context, id int) (*models.TournamentInstance, error)
	listFn             func(ctx context.Context, filter repositories.ListInstancesFilter) ([]models.TournamentInstance, error)
	updateFn           func(ctx context.Context, instance *models.TournamentInstance) error
	deleteFn           func(ctx context.Context, id int) error
}

func (m *mockInstanceRepo) Create(ctx context.Context, instance *models.TournamentInstance) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, instance)
}

func (m *mockInstanceRepo) GetByID(ctx context.Context, id int) (*models.TournamentInstance, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockInstanceRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.TournamentInstance, error) {
	if m.getByIDForUpdateFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDForUpdateFn(ctx, exec, id)
}

func (m *mockInstanceRepo) GetDetail(ctx context.Context, id int) (*models.TournamentInstance, error) {
	if m.getDetailFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getDetailFn(ctx, id)
}

func (m *mockInstanceRepo) List(ctx context.Context, filter repositories.ListInstancesFilter) ([]models.TournamentInstance, error) {
	if m.listFn == nil {
		return nil, errMockNotConfigured
	}
	return m.listFn(ctx, filter)
}

func (m *mockInstanceRepo) Update(ctx context.Context, instance *models.TournamentInstance) error {
	if m.updateFn == nil {
		return errMockNotConfigured
	}
	return m.updateFn(ctx, instance)
}

func (m *mockInstanceRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn == nil {
		return errMockNotConfigured
	}
	return m.deleteFn(ctx, id)
}

type mockPlayerRepo struct {
	createFn      func(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error
	getByIDFn     func(ctx context.Context, id int) (*models.Player, error)
	getByUserIDFn func(ctx context.Context, userID int) (*models.Player, error)
}

func (m *mockPlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, exec, player)
}

func (m *mockPlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockPlayerRepo) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	if m.getByUserIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByUserIDFn(ctx, userID)
}

type mockTournamentRepo struct {
	createFn  func(ctx context.Context, t *models.Tournament) error
	getByIDFn func(ctx context.Context, id int) (*models.Tournament, error)
	existsFn  func(ctx context.Context, id int) (bool, error)
	listFn    func(ctx context.Context, limit, offset int) ([]models.Tournament, error)
}

func (m *mockTournamentRepo) Create(ctx context.Context, t *models.Tournament) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, t)
}

func (m *mockTournamentRepo) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockTournamentRepo) Exists(ctx context.Context, id int) (bool, error) {
	if m.existsFn == nil {
		return false, errMockNotConfigured
	}
	return m.existsFn(ctx, id)
}

func (m *mockTournamentRepo) List(ctx context.Context, limit, offset int) ([]models.Tournament, error) {
	if m.listFn == nil {
		return nil, errMockNotConfigured
	}
	return m.listFn(ctx, limit, offset)
}

type mockCityRepo struct {
	getByIDFn func(ctx context.Context, id int) (*models.City, error)
	existsFn  func(ctx context.Context, id int) (bool, error)
}

func (m *mockCityRepo) GetByID(ctx context.Context, id int) (*models.City, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockCityRepo) Exists(ctx context.Context, id int) (bool, error) {
	if m.existsFn == nil {
		return false, errMockNotConfigured
	}
	return m.existsFn(ctx, id)
}

type mockUserRepo struct {
	createFn         func(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error
	getByIDFn        func(ctx context.Context, id int) (*models.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*models.User, error)
	updatePhotoKeyFn func(ctx context.Context, userID int, photoKey *string) error
}

func (m *mockUserRepo) Create(ctx context.Context, exec repositories.SQLExecutor, user *models.User) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, exec, user)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.getByEmailFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserRepo) UpdatePhotoKey(ctx context.Context, userID int, photoKey *string) error {
	if m.updatePhotoKeyFn == nil {
		return errMockNotConfigured
	}
	return m.updatePhotoKeyFn(ctx, userID, photoKey)
}

type mockOrganizerRepo struct {
	createFn      func(ctx context.Context, exec repositories.SQLExecutor, organizer *models.Organizer) error
	getByIDFn     func(ctx context.Context, id int) (*models.Organizer, error)
	getByUserIDFn func(ctx context.Context, userID int) (*models.Organizer, error)
}

func (m *mockOrganizerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, organizer *models.Organizer) error {
	if m.createFn == nil {
		return errMockNotConfigured
	}
	return m.createFn(ctx, exec, organizer)
}

func (m *mockOrganizerRepo) GetByID(ctx context.Context, id int) (*models.Organizer, error) {
	if m.getByIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockOrganizerRepo) GetByUserID(ctx context.Context, userID int) (*models.Organizer, error) {
	if m.getByUserIDFn == nil {
		return nil, errMockNotConfigured
	}
	return m.getByUserIDFn(ctx, userID)
}

type mockAddressRepo struct {
	existsFn func(ctx context.Context, id int) (bool, error)
}

func (m *mockAddressRepo) Exists(ctx context.Context, id int) (bool, error) {
	if m.existsFn == nil {
		return false, errMockNotConfigured
	}
	return m.existsFn(ctx, id)
}

type mockRecorder struct {
	recordFn func(ctx context.Context, exec repositories.SQLExecutor, method models.PaymentMethod, amount float64) (*models.Payment, error)
	removeFn func(ctx context.Context, exec repositories.SQLExecutor, paymentID int) error
}

func (m *mockRecorder) Record(ctx context.Context, exec repositories.SQLExecutor, method models.PaymentMethod, amount float64) (*models.Payment, error) {
	if m.recordFn == nil {
		return nil, errMockNotConfigured
	}
	return m.recordFn(ctx, exec, method, amount)
}

func (m *mockRecorder) Remove(ctx context.Context, exec repositories.SQLExecutor, paymentID int) error {
	if m.removeFn == nil {
		return errMockNotConfigured
	}
	return m.removeFn(ctx, exec, paymentID)
}
