package work

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// ============================================================================
// Mocks
// ============================================================================

// MockWorkRepository is a mock implementation of WorkRepository
type MockWorkRepository struct {
	mock.Mock
}

func (m *MockWorkRepository) Create(ctx context.Context, w *work.Work) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkRepository) Update(ctx context.Context, w *work.Work) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.Work), args.Error(1)
}

func (m *MockWorkRepository) FindAll(ctx context.Context, filter work.WorkFilter) ([]*work.Work, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*work.Work), args.Get(1).(int64), args.Error(2)
}

func (m *MockWorkRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*work.Work, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.Work), args.Error(1)
}

func (m *MockWorkRepository) SaveSectors(ctx context.Context, w *work.Work) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkRepository) LoadSectors(ctx context.Context, w *work.Work) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ work.WorkRepository = (*MockWorkRepository)(nil)

// MockSectorRepository is a mock implementation of SectorRepository
type MockSectorRepository struct {
	mock.Mock
}

func (m *MockSectorRepository) Create(ctx context.Context, sector *structure.Sector) error {
	args := m.Called(ctx, sector)
	return args.Error(0)
}

func (m *MockSectorRepository) Update(ctx context.Context, sector *structure.Sector) error {
	args := m.Called(ctx, sector)
	return args.Error(0)
}

func (m *MockSectorRepository) FindByID(ctx context.Context, id uuid.UUID) (*structure.Sector, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*structure.Sector), args.Error(1)
}

func (m *MockSectorRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]structure.Sector, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]structure.Sector), args.Error(1)
}

func (m *MockSectorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]structure.Sector, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]structure.Sector), args.Get(1).(int64), args.Error(2)
}

func (m *MockSectorRepository) FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]structure.Sector, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]structure.Sector), args.Error(1)
}

func (m *MockSectorRepository) ExistsByCode(ctx context.Context, zoneID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, zoneID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSectorRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var _ structure.SectorRepository = (*MockSectorRepository)(nil)

// capturingEventPublisher records every published event for assertions
type capturingEventPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingEventPublisher) eventTypes() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

var _ shared.EventPublisher = (*capturingEventPublisher)(nil)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestSectorID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newTestUserID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func createTestSector() *structure.Sector {
	zoneID := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	sector, _ := structure.NewSector("North Field", "NF-01", zoneID)
	sector.ID = newTestSectorID()
	return sector
}

func createTestWork() *work.Work {
	w, _ := work.NewWork(
		"Clear the drainage channel",
		newTestUserID(),
		newTestSectorID(),
		time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		4,
		decimal.NewFromInt(1200),
	)
	w.ClearDomainEvents()
	return w
}

func newTestWorkService() (*WorkService, *MockWorkRepository, *MockSectorRepository, *MockWorkAttachmentRepository, *MockObjectStorageService, *capturingEventPublisher) {
	mockWorkRepo := new(MockWorkRepository)
	mockSectorRepo := new(MockSectorRepository)
	mockAttachmentRepo := new(MockWorkAttachmentRepository)
	mockStorage := new(MockObjectStorageService)
	publisher := &capturingEventPublisher{}
	service := NewWorkService(mockWorkRepo, mockSectorRepo, mockAttachmentRepo, mockStorage, zap.NewNop())
	service.SetEventPublisher(publisher)
	return service, mockWorkRepo, mockSectorRepo, mockAttachmentRepo, mockStorage, publisher
}

// ============================================================================
// Create Tests
// ============================================================================

func TestWorkService_Create_Success(t *testing.T) {
	service, mockWorkRepo, mockSectorRepo, _, _, publisher := newTestWorkService()

	ctx := context.Background()
	sector := createTestSector()
	input := CreateWorkInput{
		Description:       "Repave the access road",
		AssignedBy:        newTestUserID(),
		SectorID:          sector.ID,
		PlannedStartDate:  time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		PlannedEndDate:    time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC),
		Quality:           "asphalt grade II",
		Quantity:          2,
		TimeRequiredHours: 80,
		Cost:              decimal.NewFromInt(5400),
	}

	mockSectorRepo.On("FindByID", mock.Anything, sector.ID).Return(sector, nil)
	mockWorkRepo.On("Create", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)

	result, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "Repave the access road", result.Description)
	assert.Equal(t, "unassigned", result.Status)
	assert.Equal(t, "asphalt grade II", result.Quality)
	assert.Equal(t, 80, result.TimeRequiredHours)
	assert.Contains(t, publisher.eventTypes(), work.EventTypeWorkCreated)
	mockSectorRepo.AssertExpectations(t)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_Create_SectorNotFound(t *testing.T) {
	service, _, mockSectorRepo, _, _, _ := newTestWorkService()

	ctx := context.Background()
	sectorID := newTestSectorID()
	input := CreateWorkInput{
		Description:      "Repave the access road",
		AssignedBy:       newTestUserID(),
		SectorID:         sectorID,
		PlannedStartDate: time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC),
		PlannedEndDate:   time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC),
		Quantity:         2,
		Cost:             decimal.NewFromInt(5400),
	}

	mockSectorRepo.On("FindByID", mock.Anything, sectorID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SECTOR_NOT_FOUND", domainErr.Code)
	mockSectorRepo.AssertExpectations(t)
}

func TestWorkService_Create_InvalidDates(t *testing.T) {
	service, _, mockSectorRepo, _, _, _ := newTestWorkService()

	ctx := context.Background()
	sector := createTestSector()
	input := CreateWorkInput{
		Description:      "Repave the access road",
		AssignedBy:       newTestUserID(),
		SectorID:         sector.ID,
		PlannedStartDate: time.Date(2025, 4, 18, 0, 0, 0, 0, time.UTC),
		PlannedEndDate:   time.Date(2025, 4, 7, 0, 0, 0, 0, time.UTC), // before start
		Quantity:         2,
		Cost:             decimal.NewFromInt(5400),
	}

	mockSectorRepo.On("FindByID", mock.Anything, sector.ID).Return(sector, nil)

	result, err := service.Create(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATES", domainErr.Code)
}

// ============================================================================
// AssignSectors Tests
// ============================================================================

func TestWorkService_AssignSectors_Success(t *testing.T) {
	service, mockWorkRepo, mockSectorRepo, _, _, publisher := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()
	sectorA := createTestSector()
	sectorB := createTestSector()
	sectorB.ID = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	sectorIDs := []uuid.UUID{sectorA.ID, sectorB.ID}

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
	mockSectorRepo.On("FindByIDs", ctx, sectorIDs).Return([]structure.Sector{*sectorA, *sectorB}, nil)
	mockWorkRepo.On("Update", ctx, w).Return(nil)
	mockWorkRepo.On("SaveSectors", ctx, w).Return(nil)

	result, err := service.AssignSectors(ctx, AssignSectorsInput{WorkID: w.ID, SectorIDs: sectorIDs})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "assigned", result.Status)
	assert.Len(t, result.SectorIDs, 2)
	assert.Contains(t, publisher.eventTypes(), work.EventTypeWorkAssignedToSectors)
	mockWorkRepo.AssertExpectations(t)
	mockSectorRepo.AssertExpectations(t)
}

func TestWorkService_AssignSectors_WorkNotFound(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	workID := uuid.New()

	mockWorkRepo.On("FindByID", ctx, workID).Return(nil, shared.ErrNotFound)

	result, err := service.AssignSectors(ctx, AssignSectorsInput{
		WorkID:    workID,
		SectorIDs: []uuid.UUID{newTestSectorID()},
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WORK_NOT_FOUND", domainErr.Code)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_AssignSectors_SectorMissing(t *testing.T) {
	service, mockWorkRepo, mockSectorRepo, _, _, _ := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()
	sectorA := createTestSector()
	missingID := uuid.MustParse("55555555-5555-5555-5555-555555555555")
	sectorIDs := []uuid.UUID{sectorA.ID, missingID}

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
	mockSectorRepo.On("FindByIDs", ctx, sectorIDs).Return([]structure.Sector{*sectorA}, nil)

	result, err := service.AssignSectors(ctx, AssignSectorsInput{WorkID: w.ID, SectorIDs: sectorIDs})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SECTOR_NOT_FOUND", domainErr.Code)
	mockWorkRepo.AssertExpectations(t)
	mockSectorRepo.AssertExpectations(t)
}

func TestWorkService_AssignSectors_EmptyList(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)

	result, err := service.AssignSectors(ctx, AssignSectorsInput{WorkID: w.ID, SectorIDs: nil})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SECTOR_IDS", domainErr.Code)
}

// ============================================================================
// GetByID / List / GetByUser Tests
// ============================================================================

func TestWorkService_GetByID_Success(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
	mockWorkRepo.On("LoadSectors", ctx, w).Return(nil)

	result, err := service.GetByID(ctx, w.ID)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, w.ID, result.ID)
	assert.Equal(t, w.Description, result.Description)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_GetByID_NotFound(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	workID := uuid.New()

	mockWorkRepo.On("FindByID", ctx, workID).Return(nil, shared.ErrNotFound)

	result, err := service.GetByID(ctx, workID)

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WORK_NOT_FOUND", domainErr.Code)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_List_Success(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	w1 := createTestWork()
	w2 := createTestWork()
	filter := work.NewWorkFilter()

	mockWorkRepo.On("FindAll", ctx, filter).Return([]*work.Work{w1, w2}, int64(2), nil)
	mockWorkRepo.On("LoadSectors", ctx, mock.AnythingOfType("*work.Work")).Return(nil)

	result, err := service.List(ctx, filter)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Len(t, result.Works, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 1, result.TotalPages)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_List_Pagination(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	filter := work.WorkFilter{Page: 2, PageSize: 10}

	mockWorkRepo.On("FindAll", ctx, filter).Return([]*work.Work{}, int64(25), nil)

	result, err := service.List(ctx, filter)

	assert.NoError(t, err)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, result.PageSize)
	assert.Equal(t, 3, result.TotalPages)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_GetByUser_Success(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	userID := newTestUserID()
	w := createTestWork()

	mockWorkRepo.On("FindByUser", ctx, userID).Return([]*work.Work{w}, nil)
	mockWorkRepo.On("LoadSectors", ctx, w).Return(nil)

	result, err := service.GetByUser(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, w.ID, result[0].ID)
	mockWorkRepo.AssertExpectations(t)
}

// ============================================================================
// Delete Tests
// ============================================================================

func TestWorkService_Delete_Success(t *testing.T) {
	service, mockWorkRepo, _, mockAttachmentRepo, mockStorage, publisher := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()
	attachment := createTestWorkAttachment(w.ID)

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
	mockAttachmentRepo.On("FindByWorkID", ctx, w.ID).Return([]*work.WorkAttachment{attachment}, nil)
	mockStorage.On("DeleteObject", ctx, attachment.StorageKey).Return(nil)
	mockAttachmentRepo.On("Delete", ctx, attachment.ID).Return(nil)
	mockWorkRepo.On("Delete", ctx, w.ID).Return(nil)

	err := service.Delete(ctx, w.ID)

	assert.NoError(t, err)
	assert.Contains(t, publisher.eventTypes(), work.EventTypeWorkDeleted)
	mockWorkRepo.AssertExpectations(t)
	mockAttachmentRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestWorkService_Delete_NotFound(t *testing.T) {
	service, mockWorkRepo, _, _, _, _ := newTestWorkService()

	ctx := context.Background()
	workID := uuid.New()

	mockWorkRepo.On("FindByID", ctx, workID).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, workID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "WORK_NOT_FOUND", domainErr.Code)
	mockWorkRepo.AssertExpectations(t)
}

func TestWorkService_Delete_StorageFailureDoesNotBlock(t *testing.T) {
	service, mockWorkRepo, _, mockAttachmentRepo, mockStorage, _ := newTestWorkService()

	ctx := context.Background()
	w := createTestWork()
	attachment := createTestWorkAttachment(w.ID)

	mockWorkRepo.On("FindByID", ctx, w.ID).Return(w, nil)
	mockAttachmentRepo.On("FindByWorkID", ctx, w.ID).Return([]*work.WorkAttachment{attachment}, nil)
	mockStorage.On("DeleteObject", ctx, attachment.StorageKey).Return(assert.AnError)
	mockAttachmentRepo.On("Delete", ctx, attachment.ID).Return(nil)
	mockWorkRepo.On("Delete", ctx, w.ID).Return(nil)

	err := service.Delete(ctx, w.ID)

	assert.NoError(t, err)
	mockWorkRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}
