package structure

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

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
		return nil, args.Get(1).(int64), args.Error(2)
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

func newTestSectorFixture(t *testing.T, name, code string, zoneID uuid.UUID) *structure.Sector {
	t.Helper()
	sector, err := structure.NewSector(name, code, zoneID)
	require.NoError(t, err)
	sector.ClearDomainEvents()
	return sector
}

func newTestSectorService() (*SectorService, *MockSectorRepository, *MockZoneRepository, *capturingEventPublisher) {
	mockSectorRepo := new(MockSectorRepository)
	mockZoneRepo := new(MockZoneRepository)
	publisher := &capturingEventPublisher{}
	service := NewSectorService(mockSectorRepo, mockZoneRepo, zap.NewNop())
	service.SetEventPublisher(publisher)
	return service, mockSectorRepo, mockZoneRepo, publisher
}

// ============================================================================
// Create Tests
// ============================================================================

func TestSectorService_Create_Success(t *testing.T) {
	service, mockSectorRepo, mockZoneRepo, publisher := newTestSectorService()

	ctx := context.Background()
	zone := newTestZoneFixture(t, "North District")

	mockZoneRepo.On("FindByID", ctx, zone.ID).Return(zone, nil)
	mockSectorRepo.On("ExistsByCode", ctx, zone.ID, "RIVERSIDE-1").Return(false, nil)
	mockSectorRepo.On("Create", ctx, mock.AnythingOfType("*structure.Sector")).Return(nil)

	result, err := service.Create(ctx, CreateSectorInput{
		Name:   "Riverside Path",
		Code:   "riverside-1",
		ZoneID: zone.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "Riverside Path", result.Name)
	assert.Equal(t, "RIVERSIDE-1", result.Code)
	assert.Equal(t, zone.ID, result.ZoneID)
	assert.Contains(t, publisher.eventTypes(), structure.EventTypeSectorCreated)
	mockSectorRepo.AssertExpectations(t)
}

func TestSectorService_Create_ZoneNotFound(t *testing.T) {
	service, mockSectorRepo, mockZoneRepo, _ := newTestSectorService()

	ctx := context.Background()
	zoneID := uuid.New()

	mockZoneRepo.On("FindByID", ctx, zoneID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, CreateSectorInput{
		Name:   "Orphan Sector",
		Code:   "ORPHAN-1",
		ZoneID: zoneID,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ZONE_NOT_FOUND", domainErr.Code)
	mockSectorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSectorService_Create_CodeExists(t *testing.T) {
	service, mockSectorRepo, mockZoneRepo, _ := newTestSectorService()

	ctx := context.Background()
	zone := newTestZoneFixture(t, "North District")

	mockZoneRepo.On("FindByID", ctx, zone.ID).Return(zone, nil)
	mockSectorRepo.On("ExistsByCode", ctx, zone.ID, "TAKEN-1").Return(true, nil)

	result, err := service.Create(ctx, CreateSectorInput{
		Name:   "Duplicate Sector",
		Code:   "TAKEN-1",
		ZoneID: zone.ID,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "SECTOR_CODE_EXISTS", domainErr.Code)
	mockSectorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSectorService_Create_InvalidCode(t *testing.T) {
	service, mockSectorRepo, mockZoneRepo, _ := newTestSectorService()

	ctx := context.Background()
	zone := newTestZoneFixture(t, "North District")

	mockZoneRepo.On("FindByID", ctx, zone.ID).Return(zone, nil)
	mockSectorRepo.On("ExistsByCode", ctx, zone.ID, "BAD CODE!").Return(false, nil)

	result, err := service.Create(ctx, CreateSectorInput{
		Name:   "Bad Sector",
		Code:   "bad code!",
		ZoneID: zone.ID,
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CODE", domainErr.Code)
	mockSectorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// List Tests
// ============================================================================

func TestSectorService_List_Success(t *testing.T) {
	service, mockSectorRepo, _, _ := newTestSectorService()

	ctx := context.Background()
	zoneID := uuid.New()
	riverside := newTestSectorFixture(t, "Riverside Path", "RIVERSIDE-1", zoneID)
	hillside := newTestSectorFixture(t, "Hillside Path", "HILLSIDE-1", zoneID)

	mockSectorRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
		Return([]structure.Sector{*riverside, *hillside}, int64(2), nil)

	result, err := service.List(ctx, shared.DefaultFilter(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Sectors, 2)
	assert.Equal(t, "RIVERSIDE-1", result.Sectors[0].Code)
}

func TestSectorService_List_FilteredByZone(t *testing.T) {
	service, mockSectorRepo, _, _ := newTestSectorService()

	ctx := context.Background()
	zoneID := uuid.New()
	riverside := newTestSectorFixture(t, "Riverside Path", "RIVERSIDE-1", zoneID)

	var capturedFilter shared.Filter
	mockSectorRepo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).
		Return([]structure.Sector{*riverside}, int64(1), nil).
		Run(func(args mock.Arguments) {
			capturedFilter = args.Get(1).(shared.Filter)
		})

	result, err := service.List(ctx, shared.DefaultFilter(), &zoneID)

	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, zoneID, capturedFilter.Filters["zone_id"])
}
