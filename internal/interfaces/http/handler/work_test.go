package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	appwork "github.com/orgstruct/backend/internal/application/work"
	"github.com/orgstruct/backend/internal/domain/shared"
	"github.com/orgstruct/backend/internal/domain/structure"
	"github.com/orgstruct/backend/internal/domain/work"
	"github.com/orgstruct/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockWorkRepository is a mock implementation of work.WorkRepository
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
		return nil, args.Get(1).(int64), args.Error(2)
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

// MockWeeklyTaskRepository is a mock implementation of work.WeeklyTaskRepository
type MockWeeklyTaskRepository struct {
	mock.Mock
}

func (m *MockWeeklyTaskRepository) Create(ctx context.Context, task *work.WeeklyTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockWeeklyTaskRepository) CreateBatch(ctx context.Context, tasks []*work.WeeklyTask) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockWeeklyTaskRepository) Update(ctx context.Context, task *work.WeeklyTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockWeeklyTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWeeklyTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.WeeklyTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.WeeklyTask), args.Error(1)
}

func (m *MockWeeklyTaskRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*work.WeeklyTask, error) {
	args := m.Called(ctx, workID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.WeeklyTask), args.Error(1)
}

func (m *MockWeeklyTaskRepository) FindByPicker(ctx context.Context, userID uuid.UUID) ([]*work.WeeklyTask, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.WeeklyTask), args.Error(1)
}

func (m *MockWeeklyTaskRepository) FindOverdueUnassigned(ctx context.Context, now time.Time) ([]*work.WeeklyTask, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.WeeklyTask), args.Error(1)
}

func (m *MockWeeklyTaskRepository) Claim(ctx context.Context, taskID, userID uuid.UUID) (*work.WeeklyTask, error) {
	args := m.Called(ctx, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.WeeklyTask), args.Error(1)
}

func (m *MockWeeklyTaskRepository) MarkExpired(ctx context.Context, taskID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWeeklyTaskRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockWorkAttachmentRepository is a mock implementation of work.WorkAttachmentRepository
type MockWorkAttachmentRepository struct {
	mock.Mock
}

func (m *MockWorkAttachmentRepository) Create(ctx context.Context, attachment *work.WorkAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockWorkAttachmentRepository) Update(ctx context.Context, attachment *work.WorkAttachment) error {
	args := m.Called(ctx, attachment)
	return args.Error(0)
}

func (m *MockWorkAttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*work.WorkAttachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*work.WorkAttachment), args.Error(1)
}

func (m *MockWorkAttachmentRepository) FindByWorkID(ctx context.Context, workID uuid.UUID) ([]*work.WorkAttachment, error) {
	args := m.Called(ctx, workID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*work.WorkAttachment), args.Error(1)
}

func (m *MockWorkAttachmentRepository) CountByWorkID(ctx context.Context, workID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workID)
	return args.Get(0).(int64), args.Error(1)
}

// MockObjectStorage is a mock implementation of the object storage service
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, data []byte, contentType string) error {
	args := m.Called(ctx, storageKey, data, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func setupWorkHandler(
	workRepo *MockWorkRepository,
	taskRepo *MockWeeklyTaskRepository,
	sectorRepo *MockSectorRepository,
	attachmentRepo *MockWorkAttachmentRepository,
	storage *MockObjectStorage,
) *WorkHandler {
	logger := zap.NewNop()
	workService := appwork.NewWorkService(workRepo, sectorRepo, attachmentRepo, storage, logger)
	weeklyTaskService := appwork.NewWeeklyTaskService(taskRepo, workRepo, sectorRepo, logger)
	attachmentService := appwork.NewAttachmentService(attachmentRepo, workRepo, storage, logger)
	return NewWorkHandler(workService, weeklyTaskService, attachmentService)
}

func createTestWork(assignedBy, sectorID uuid.UUID) *work.Work {
	w, _ := work.NewWork("Paint the north fence", assignedBy, sectorID,
		time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC),
		100, decimal.NewFromInt(2000))
	return w
}

func createTestWeeklyTask(workID, sectorID uuid.UUID) *work.WeeklyTask {
	task, _ := work.NewWeeklyTask("Fence segment for the week", workID, sectorID, 2026, 30)
	return task
}

func createTestAttachment(workID uuid.UUID) *work.WorkAttachment {
	uploadedBy := uuid.New()
	attachment, _ := work.NewWorkAttachment(workID, "site-plan.pdf", 2048, "application/pdf",
		"works/"+workID.String()+"/attachments/site-plan.pdf", &uploadedBy)
	_ = attachment.Confirm()
	return attachment
}

func buildAttachmentUploadRequest(t *testing.T, url, fileName, contentType string, content []byte) *http.Request {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// Work tests

func TestWorkHandler_Create_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	zoneID := uuid.New()
	sector := createTestSector("Sector A", "SEC-A", zoneID)

	sectorRepo.On("FindByID", mock.Anything, sector.ID).Return(sector, nil)
	workRepo.On("Create", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)

	router := setupTestRouter()
	router.POST("/works", handler.Create)

	requestBody := map[string]interface{}{
		"description":        "Paint the north fence",
		"sector_id":          sector.ID.String(),
		"planned_start_date": "2026-07-01T00:00:00Z",
		"planned_end_date":   "2026-07-31T00:00:00Z",
		"quantity":           100,
		"cost":               2000,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response["success"].(bool))

	data := response["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Paint the north fence", data["description"])
	assert.Equal(t, "unassigned", data["status"])
	assert.Equal(t, float64(100), data["quantity"])
	// The assigning user comes from the JWT context
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", data["assigned_by"])

	workRepo.AssertExpectations(t)
	sectorRepo.AssertExpectations(t)
}

func TestWorkHandler_Create_SectorNotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	sectorID := uuid.New()
	sectorRepo.On("FindByID", mock.Anything, sectorID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/works", handler.Create)

	requestBody := map[string]interface{}{
		"description":        "Paint the north fence",
		"sector_id":          sectorID.String(),
		"planned_start_date": "2026-07-01T00:00:00Z",
		"planned_end_date":   "2026-07-31T00:00:00Z",
		"quantity":           100,
		"cost":               2000,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	workRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkHandler_Create_EndBeforeStart(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	zoneID := uuid.New()
	sector := createTestSector("Sector A", "SEC-A", zoneID)
	sectorRepo.On("FindByID", mock.Anything, sector.ID).Return(sector, nil)

	router := setupTestRouter()
	router.POST("/works", handler.Create)

	requestBody := map[string]interface{}{
		"description":        "Paint the north fence",
		"sector_id":          sector.ID.String(),
		"planned_start_date": "2026-07-31T00:00:00Z",
		"planned_end_date":   "2026-07-01T00:00:00Z",
		"quantity":           100,
		"cost":               2000,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	workRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkHandler_List_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	assignedBy := uuid.New()
	sectorID := uuid.New()
	works := []*work.Work{
		createTestWork(assignedBy, sectorID),
		createTestWork(assignedBy, sectorID),
	}

	workRepo.On("FindAll", mock.Anything, mock.AnythingOfType("work.WorkFilter")).Return(works, int64(2), nil)
	workRepo.On("LoadSectors", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)

	router := setupTestRouter()
	router.GET("/works", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/works?page=1&page_size=20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
	assert.Len(t, data["works"], 2)

	workRepo.AssertExpectations(t)
}

func TestWorkHandler_List_FiltersByStatus(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	workRepo.On("FindAll", mock.Anything, mock.MatchedBy(func(f work.WorkFilter) bool {
		return f.Status != nil && *f.Status == work.WorkStatusAssigned
	})).Return([]*work.Work{}, int64(0), nil)

	router := setupTestRouter()
	router.GET("/works", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/works?status=assigned", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	workRepo.AssertExpectations(t)
}

func TestWorkHandler_List_RejectsUnknownStatus(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	router := setupTestRouter()
	router.GET("/works", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/works?status=bogus", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	workRepo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestWorkHandler_GetByID_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())
	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	workRepo.On("LoadSectors", mock.Anything, testWork).Return(nil)

	router := setupTestRouter()
	router.GET("/works/:work_id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/works/"+testWork.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, testWork.ID.String(), data["id"])
	assert.Equal(t, "Paint the north fence", data["description"])

	workRepo.AssertExpectations(t)
}

func TestWorkHandler_GetByID_NotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	workID := uuid.New()
	workRepo.On("FindByID", mock.Anything, workID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/works/:work_id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/works/"+workID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	workRepo.AssertExpectations(t)
}

func TestWorkHandler_GetByUser_DefaultsToCaller(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	callerID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	works := []*work.Work{createTestWork(callerID, uuid.New())}

	workRepo.On("FindByUser", mock.Anything, callerID).Return(works, nil)
	workRepo.On("LoadSectors", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)

	router := setupTestRouter()
	router.GET("/works/by-user", handler.GetByUser)

	req := httptest.NewRequest(http.MethodGet, "/works/by-user", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Len(t, data["works"], 1)

	workRepo.AssertExpectations(t)
}

func TestWorkHandler_AssignSectors_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	zoneID := uuid.New()
	sector1 := createTestSector("Sector A", "SEC-A", zoneID)
	sector2 := createTestSector("Sector B", "SEC-B", zoneID)
	testWork := createTestWork(uuid.New(), sector1.ID)

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	sectorRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]structure.Sector{*sector1, *sector2}, nil)
	workRepo.On("Update", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)
	workRepo.On("SaveSectors", mock.Anything, mock.AnythingOfType("*work.Work")).Return(nil)

	router := setupTestRouter()
	router.POST("/works/:work_id/assign", handler.AssignSectors)

	requestBody := map[string]interface{}{
		"sector_ids": []string{sector1.ID.String(), sector2.ID.String()},
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/"+testWork.ID.String()+"/assign", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "assigned", data["status"])
	assert.Len(t, data["sector_ids"], 2)

	workRepo.AssertExpectations(t)
	sectorRepo.AssertExpectations(t)
}

func TestWorkHandler_AssignSectors_UnknownSector(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	zoneID := uuid.New()
	sector1 := createTestSector("Sector A", "SEC-A", zoneID)
	missingID := uuid.New()
	testWork := createTestWork(uuid.New(), sector1.ID)

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	// Only one of the two requested sectors exists
	sectorRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]structure.Sector{*sector1}, nil)

	router := setupTestRouter()
	router.POST("/works/:work_id/assign", handler.AssignSectors)

	requestBody := map[string]interface{}{
		"sector_ids": []string{sector1.ID.String(), missingID.String()},
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/"+testWork.ID.String()+"/assign", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	workRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	workRepo.AssertNotCalled(t, "SaveSectors", mock.Anything, mock.Anything)
}

func TestWorkHandler_Delete_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())
	attachment := createTestAttachment(testWork.ID)

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	attachmentRepo.On("FindByWorkID", mock.Anything, testWork.ID).Return([]*work.WorkAttachment{attachment}, nil)
	storage.On("DeleteObject", mock.Anything, attachment.StorageKey).Return(nil)
	attachmentRepo.On("Delete", mock.Anything, attachment.ID).Return(nil)
	workRepo.On("Delete", mock.Anything, testWork.ID).Return(nil)

	router := setupTestRouter()
	router.DELETE("/works/:work_id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/works/"+testWork.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	workRepo.AssertExpectations(t)
	attachmentRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestWorkHandler_Delete_NotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	workID := uuid.New()
	workRepo.On("FindByID", mock.Anything, workID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.DELETE("/works/:work_id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/works/"+workID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	workRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestWorkHandler_Count_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	workRepo.On("Count", mock.Anything).Return(int64(9), nil)

	router := setupTestRouter()
	router.GET("/works/stats/count", handler.Count)

	req := httptest.NewRequest(http.MethodGet, "/works/stats/count", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(9), data["count"])

	workRepo.AssertExpectations(t)
}

// Weekly task tests

func TestWorkHandler_CreateWeeklyTasks_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	zoneID := uuid.New()
	sector1 := createTestSector("Sector A", "SEC-A", zoneID)
	sector2 := createTestSector("Sector B", "SEC-B", zoneID)
	testWork := createTestWork(uuid.New(), sector1.ID)

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	sectorRepo.On("FindByIDs", mock.Anything, mock.Anything).Return([]structure.Sector{*sector1, *sector2}, nil)
	taskRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*work.WeeklyTask")).Return(nil)

	router := setupTestRouter()
	router.POST("/works/weekly-tasks", handler.CreateWeeklyTasks)

	requestBody := map[string]interface{}{
		"work_id":     testWork.ID.String(),
		"sector_ids":  []string{sector1.ID.String(), sector2.ID.String()},
		"description": "Fence segment for the week",
		"year":        2026,
		"week_number": 30,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/weekly-tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	// One task per sector, all unclaimed
	data := response["data"].(map[string]interface{})
	tasks := data["weekly_tasks"].([]interface{})
	assert.Len(t, tasks, 2)
	for _, raw := range tasks {
		task := raw.(map[string]interface{})
		assert.Equal(t, "unassigned", task["status"])
		_, picked := task["picked_by"]
		assert.False(t, picked)
	}

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_CreateWeeklyTasks_WorkNotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	workID := uuid.New()
	workRepo.On("FindByID", mock.Anything, workID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/works/weekly-tasks", handler.CreateWeeklyTasks)

	requestBody := map[string]interface{}{
		"work_id":     workID.String(),
		"sector_ids":  []string{uuid.New().String()},
		"week_number": 30,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/weekly-tasks", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	taskRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

func TestWorkHandler_Pick_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	callerID := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	task := createTestWeeklyTask(uuid.New(), uuid.New())
	_ = task.Pick(callerID)

	taskRepo.On("Claim", mock.Anything, task.ID, callerID).Return(task, nil)

	router := setupTestRouter()
	router.POST("/works/pick", handler.Pick)

	requestBody := map[string]interface{}{
		"weekly_task_id": task.ID.String(),
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/pick", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "assigned", data["status"])
	assert.Equal(t, callerID.String(), data["picked_by"])

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_Pick_ExplicitUser(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	pickerID := uuid.New()
	task := createTestWeeklyTask(uuid.New(), uuid.New())
	_ = task.Pick(pickerID)

	taskRepo.On("Claim", mock.Anything, task.ID, pickerID).Return(task, nil)

	router := setupTestRouter()
	router.POST("/works/pick", handler.Pick)

	requestBody := map[string]interface{}{
		"weekly_task_id": task.ID.String(),
		"user_id":        pickerID.String(),
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/pick", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_Pick_TaskNotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	taskID := uuid.New()
	taskRepo.On("Claim", mock.Anything, taskID, mock.Anything).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.POST("/works/pick", handler.Pick)

	requestBody := map[string]interface{}{
		"weekly_task_id": taskID.String(),
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/pick", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_Pick_AlreadyPicked(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	taskID := uuid.New()
	taskRepo.On("Claim", mock.Anything, taskID, mock.Anything).
		Return(nil, shared.NewDomainError("TASK_ALREADY_PICKED", "Task has already been picked"))

	router := setupTestRouter()
	router.POST("/works/pick", handler.Pick)

	requestBody := map[string]interface{}{
		"weekly_task_id": taskID.String(),
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPost, "/works/pick", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// The loser of a claim race gets a conflict, never a silent overwrite
	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.False(t, response["success"].(bool))

	errorInfo := response["error"].(map[string]interface{})
	assert.Equal(t, dto.ErrCodeConflict, errorInfo["code"])

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_GetWeeklyTask_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	task := createTestWeeklyTask(uuid.New(), uuid.New())
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)

	router := setupTestRouter()
	router.GET("/works/weekly-tasks/:weekly_task_id", handler.GetWeeklyTask)

	req := httptest.NewRequest(http.MethodGet, "/works/weekly-tasks/"+task.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, task.ID.String(), data["id"])
	assert.Equal(t, float64(30), data["week_number"])

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_ListWeeklyTasksByWork_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())
	tasks := []*work.WeeklyTask{
		createTestWeeklyTask(testWork.ID, uuid.New()),
		createTestWeeklyTask(testWork.ID, uuid.New()),
	}

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	taskRepo.On("FindByWorkID", mock.Anything, testWork.ID).Return(tasks, nil)

	router := setupTestRouter()
	router.GET("/works/:work_id/weekly-tasks", handler.ListWeeklyTasksByWork)

	req := httptest.NewRequest(http.MethodGet, "/works/"+testWork.ID.String()+"/weekly-tasks", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Len(t, data["weekly_tasks"], 2)

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_UpdateWeeklyTask_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	task := createTestWeeklyTask(uuid.New(), uuid.New())
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)
	taskRepo.On("Update", mock.Anything, task).Return(nil)

	router := setupTestRouter()
	router.PUT("/works/weekly-tasks/:weekly_task_id", handler.UpdateWeeklyTask)

	requestBody := map[string]interface{}{
		"description": "Updated scope for the week",
		"week_number": 31,
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPut, "/works/weekly-tasks/"+task.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Updated scope for the week", data["description"])
	assert.Equal(t, float64(31), data["week_number"])

	taskRepo.AssertExpectations(t)
}

func TestWorkHandler_UpdateWeeklyTask_InvalidTransition(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	task := createTestWeeklyTask(uuid.New(), uuid.New())
	taskRepo.On("FindByID", mock.Anything, task.ID).Return(task, nil)

	router := setupTestRouter()
	router.PUT("/works/weekly-tasks/:weekly_task_id", handler.UpdateWeeklyTask)

	// An unclaimed task cannot jump straight to completed
	requestBody := map[string]interface{}{
		"status": "completed",
	}
	body, _ := json.Marshal(requestBody)

	req := httptest.NewRequest(http.MethodPut, "/works/weekly-tasks/"+task.ID.String(), bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	taskRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// Attachment tests

func TestWorkHandler_UploadAttachment_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	attachmentRepo.On("CountByWorkID", mock.Anything, testWork.ID).Return(int64(0), nil)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "application/pdf").Return(nil)
	attachmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*work.WorkAttachment")).Return(nil)
	storage.On("GenerateDownloadURL", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return("https://storage.example.com/site-plan.pdf", time.Now().Add(time.Hour), nil)

	router := setupTestRouter()
	router.POST("/works/:work_id/attachments", handler.UploadAttachment)

	req := buildAttachmentUploadRequest(t, "/works/"+testWork.ID.String()+"/attachments",
		"site-plan.pdf", "application/pdf", []byte("%PDF-1.4 fence plan"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "site-plan.pdf", data["file_name"])
	assert.Equal(t, "active", data["status"])
	assert.NotEmpty(t, data["url"])

	attachmentRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestWorkHandler_UploadAttachment_DisallowedType(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	attachmentRepo.On("CountByWorkID", mock.Anything, testWork.ID).Return(int64(0), nil)

	router := setupTestRouter()
	router.POST("/works/:work_id/attachments", handler.UploadAttachment)

	req := buildAttachmentUploadRequest(t, "/works/"+testWork.ID.String()+"/attachments",
		"tool.exe", "application/x-msdownload", []byte("MZ"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	attachmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWorkHandler_ListAttachments_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	testWork := createTestWork(uuid.New(), uuid.New())
	attachment := createTestAttachment(testWork.ID)

	workRepo.On("FindByID", mock.Anything, testWork.ID).Return(testWork, nil)
	attachmentRepo.On("FindByWorkID", mock.Anything, testWork.ID).Return([]*work.WorkAttachment{attachment}, nil)
	storage.On("GenerateDownloadURL", mock.Anything, attachment.StorageKey, mock.Anything).
		Return("https://storage.example.com/site-plan.pdf", time.Now().Add(time.Hour), nil)

	router := setupTestRouter()
	router.GET("/works/:work_id/attachments", handler.ListAttachments)

	req := httptest.NewRequest(http.MethodGet, "/works/"+testWork.ID.String()+"/attachments", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	attachments := data["attachments"].([]interface{})
	assert.Len(t, attachments, 1)

	first := attachments[0].(map[string]interface{})
	assert.Equal(t, "site-plan.pdf", first["file_name"])
	assert.NotEmpty(t, first["url"])

	attachmentRepo.AssertExpectations(t)
}

func TestWorkHandler_GetAttachmentURL_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	attachment := createTestAttachment(uuid.New())
	expiresAt := time.Now().Add(time.Hour)

	attachmentRepo.On("FindByID", mock.Anything, attachment.ID).Return(attachment, nil)
	storage.On("ObjectExists", mock.Anything, attachment.StorageKey).Return(true, nil)
	storage.On("GenerateDownloadURL", mock.Anything, attachment.StorageKey, mock.Anything).
		Return("https://storage.example.com/site-plan.pdf", expiresAt, nil)

	router := setupTestRouter()
	router.GET("/attachments/:attachment_id/url", handler.GetAttachmentURL)

	req := httptest.NewRequest(http.MethodGet, "/attachments/"+attachment.ID.String()+"/url", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "https://storage.example.com/site-plan.pdf", data["url"])
	assert.Equal(t, "site-plan.pdf", data["file_name"])

	storage.AssertExpectations(t)
}

func TestWorkHandler_GetAttachmentURL_NotFound(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	attachmentID := uuid.New()
	attachmentRepo.On("FindByID", mock.Anything, attachmentID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/attachments/:attachment_id/url", handler.GetAttachmentURL)

	req := httptest.NewRequest(http.MethodGet, "/attachments/"+attachmentID.String()+"/url", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	storage.AssertNotCalled(t, "GenerateDownloadURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorkHandler_DeleteAttachment_Success(t *testing.T) {
	workRepo := new(MockWorkRepository)
	taskRepo := new(MockWeeklyTaskRepository)
	sectorRepo := new(MockSectorRepository)
	attachmentRepo := new(MockWorkAttachmentRepository)
	storage := new(MockObjectStorage)
	handler := setupWorkHandler(workRepo, taskRepo, sectorRepo, attachmentRepo, storage)

	attachment := createTestAttachment(uuid.New())

	attachmentRepo.On("FindByID", mock.Anything, attachment.ID).Return(attachment, nil)
	attachmentRepo.On("Update", mock.Anything, attachment).Return(nil)
	storage.On("DeleteObject", mock.Anything, attachment.StorageKey).Return(nil)

	router := setupTestRouter()
	router.DELETE("/attachments/:attachment_id", handler.DeleteAttachment)

	req := httptest.NewRequest(http.MethodDelete, "/attachments/"+attachment.ID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	attachmentRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}
