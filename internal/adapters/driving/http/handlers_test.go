package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driven/mocks"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

// Mock services for testing

type mockAuthService struct {
	authenticateFn  func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
	logoutFn        func(ctx context.Context, token string) error
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Logout(ctx context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, token)
	}
	return nil
}

func (m *mockAuthService) LogoutAll(ctx context.Context, userID string) error {
	return nil
}

type mockUserService struct {
	createFn func(ctx context.Context, req driving.CreateUserRequest) (*domain.UserSummary, error)
	getFn    func(ctx context.Context, id string) (*domain.UserSummary, error)
	listFn   func(ctx context.Context) ([]*domain.UserSummary, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockUserService) Create(ctx context.Context, req driving.CreateUserRequest) (*domain.UserSummary, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Get(ctx context.Context, id string) (*domain.UserSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) List(ctx context.Context) ([]*domain.UserSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

type mockConnectionService struct {
	createFn     func(ctx context.Context, creatorID string, req driving.CreateConnectionRequest) (*domain.Connection, error)
	getFn        func(ctx context.Context, id string) (*domain.Connection, error)
	listFn       func(ctx context.Context) ([]*domain.Connection, error)
	updateFn     func(ctx context.Context, id string, req driving.UpdateConnectionRequest) (*domain.Connection, error)
	deleteFn     func(ctx context.Context, id string) error
	testFn       func(ctx context.Context, params domain.ConnectionParams) (*domain.TestResult, error)
	testStoredFn func(ctx context.Context, id string) (*domain.TestResult, error)
}

func (m *mockConnectionService) Create(ctx context.Context, creatorID string, req driving.CreateConnectionRequest) (*domain.Connection, error) {
	if m.createFn != nil {
		return m.createFn(ctx, creatorID, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) Get(ctx context.Context, id string) (*domain.Connection, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) List(ctx context.Context) ([]*domain.Connection, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) Update(ctx context.Context, id string, req driving.UpdateConnectionRequest) (*domain.Connection, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return errors.New("not implemented")
}

func (m *mockConnectionService) Enable(ctx context.Context, id string) error  { return nil }
func (m *mockConnectionService) Disable(ctx context.Context, id string) error { return nil }

func (m *mockConnectionService) Test(ctx context.Context, params domain.ConnectionParams) (*domain.TestResult, error) {
	if m.testFn != nil {
		return m.testFn(ctx, params)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) TestStored(ctx context.Context, id string) (*domain.TestResult, error) {
	if m.testStoredFn != nil {
		return m.testStoredFn(ctx, id)
	}
	return nil, errors.New("not implemented")
}

type mockClosingService struct {
	getClosingFn    func(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error)
	listClosingsFn  func(ctx context.Context, date string) ([]*domain.DailySummary, error)
	markDeliveredFn func(ctx context.Context, locationID int64, date string) error
	listJobsFn      func(ctx context.Context, limit int) ([]*domain.SyncJob, error)
}

func (m *mockClosingService) GetClosing(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error) {
	if m.getClosingFn != nil {
		return m.getClosingFn(ctx, locationID, date)
	}
	return nil, errors.New("not implemented")
}

func (m *mockClosingService) ListClosings(ctx context.Context, date string) ([]*domain.DailySummary, error) {
	if m.listClosingsFn != nil {
		return m.listClosingsFn(ctx, date)
	}
	return nil, errors.New("not implemented")
}

func (m *mockClosingService) ListClosingsByConnection(ctx context.Context, connectionID, fromDate, toDate string) ([]*domain.DailySummary, error) {
	return nil, errors.New("not implemented")
}

func (m *mockClosingService) MarkDelivered(ctx context.Context, locationID int64, date string) error {
	if m.markDeliveredFn != nil {
		return m.markDeliveredFn(ctx, locationID, date)
	}
	return errors.New("not implemented")
}

func (m *mockClosingService) ListJobs(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
	if m.listJobsFn != nil {
		return m.listJobsFn(ctx, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockClosingService) ListJobsByConnection(ctx context.Context, connectionID string, limit int) ([]*domain.SyncJob, error) {
	return nil, errors.New("not implemented")
}

func newTestServer(
	auth *mockAuthService,
	users *mockUserService,
	connections *mockConnectionService,
	closings *mockClosingService,
) (*Server, *mocks.MockTaskQueue) {
	queue := mocks.NewMockTaskQueue()
	server := NewServer(DefaultConfig(), auth, users, connections, closings, queue, nil, nil)
	return server, queue
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode body: %v", err)
	}
	return buf
}

// Health endpoints

func TestHealthHandler(t *testing.T) {
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()

	server.handleHealth(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %s", response["status"])
	}
}

func TestVersionHandler(t *testing.T) {
	server := &Server{version: "1.2.3"}

	req := httptest.NewRequest("GET", "/version", nil)
	rr := httptest.NewRecorder()

	server.handleVersion(rr, req)

	var response map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["version"] != "1.2.3" {
		t.Errorf("expected version '1.2.3', got %s", response["version"])
	}
}

// Auth endpoints

func TestLoginHandler_Success(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			if req.Email != "ana@andina.ec" || req.Password != "secret" {
				return nil, domain.ErrInvalidCredentials
			}
			return &domain.LoginResponse{
				Token:     "jwt-token",
				ExpiresAt: time.Now().Add(24 * time.Hour),
				User:      &domain.UserSummary{ID: "u1", Email: req.Email},
			}, nil
		},
	}
	server, _ := newTestServer(auth, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	body := jsonBody(t, domain.LoginRequest{Email: "ana@andina.ec", Password: "secret"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", body)
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response domain.LoginResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Token != "jwt-token" {
		t.Errorf("expected token in response, got %q", response.Token)
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	auth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	server, _ := newTestServer(auth, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	body := jsonBody(t, domain.LoginRequest{Email: "ana@andina.ec", Password: "wrong"})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", body)
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestLoginHandler_BadBody(t *testing.T) {
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()

	server.handleLogin(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

// Connection endpoints

func TestCreateConnectionHandler(t *testing.T) {
	var gotCreator string
	connections := &mockConnectionService{
		createFn: func(ctx context.Context, creatorID string, req driving.CreateConnectionRequest) (*domain.Connection, error) {
			gotCreator = creatorID
			return &domain.Connection{ID: "conn-1", Name: req.Name}, nil
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, connections, &mockClosingService{})

	body := jsonBody(t, driving.CreateConnectionRequest{
		Name:     "andina-prod",
		BaseURL:  "https://erp.andina.ec",
		Database: "prod",
		Username: "sync@andina.ec",
		APIKey:   "secret",
	})
	req := httptest.NewRequest("POST", "/api/v1/connections", body)
	req = req.WithContext(context.WithValue(req.Context(), authContextKey, &domain.AuthContext{
		UserID: "u1", Role: domain.RoleAdmin,
	}))
	rr := httptest.NewRecorder()

	server.handleCreateConnection(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}
	if gotCreator != "u1" {
		t.Errorf("expected creator u1, got %q", gotCreator)
	}
}

func TestCreateConnectionHandler_DuplicateName(t *testing.T) {
	connections := &mockConnectionService{
		createFn: func(ctx context.Context, creatorID string, req driving.CreateConnectionRequest) (*domain.Connection, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, connections, &mockClosingService{})

	body := jsonBody(t, driving.CreateConnectionRequest{Name: "andina-prod"})
	req := httptest.NewRequest("POST", "/api/v1/connections", body)
	rr := httptest.NewRecorder()

	server.handleCreateConnection(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", rr.Code)
	}
}

func TestGetConnectionHandler_NotFound(t *testing.T) {
	connections := &mockConnectionService{
		getFn: func(ctx context.Context, id string) (*domain.Connection, error) {
			return nil, domain.ErrNotFound
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, connections, &mockClosingService{})

	req := httptest.NewRequest("GET", "/api/v1/connections/missing", nil)
	req.SetPathValue("id", "missing")
	rr := httptest.NewRecorder()

	server.handleGetConnection(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestTestConnectionHandler_BadCredentials(t *testing.T) {
	connections := &mockConnectionService{
		testFn: func(ctx context.Context, params domain.ConnectionParams) (*domain.TestResult, error) {
			return nil, domain.ErrAuthenticationFailed
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, connections, &mockClosingService{})

	body := jsonBody(t, domain.ConnectionParams{
		BaseURL: "https://erp.andina.ec", Database: "prod", Username: "x", APIKey: "bad",
	})
	req := httptest.NewRequest("POST", "/api/v1/connections/test", body)
	rr := httptest.NewRecorder()

	server.handleTestConnection(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

// Sync triggers

func TestTriggerSyncHandler(t *testing.T) {
	server, queue := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	body := jsonBody(t, triggerSyncRequest{Date: "2026-08-27"})
	req := httptest.NewRequest("POST", "/api/v1/connections/conn-1/sync", body)
	req.SetPathValue("id", "conn-1")
	rr := httptest.NewRecorder()

	server.handleTriggerSync(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}

	var response TaskResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "queued" || response.TaskID == "" {
		t.Errorf("unexpected response: %+v", response)
	}

	task, err := queue.Dequeue(context.Background())
	if err != nil || task == nil {
		t.Fatalf("expected queued task, got %v, %v", task, err)
	}
	if task.Type != domain.TaskTypeSyncConnection {
		t.Errorf("expected sync_connection task, got %s", task.Type)
	}
	if task.ConnectionID() != "conn-1" || task.Date() != "2026-08-27" {
		t.Errorf("unexpected payload: %+v", task.Payload)
	}
}

func TestTriggerSyncHandler_NoBody(t *testing.T) {
	server, queue := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("POST", "/api/v1/connections/conn-1/sync", nil)
	req.SetPathValue("id", "conn-1")
	rr := httptest.NewRecorder()

	server.handleTriggerSync(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}

	task, _ := queue.Dequeue(context.Background())
	if task == nil || task.Date() != "" {
		t.Errorf("expected task targeting today, got %+v", task)
	}
}

func TestTriggerSyncHandler_BadDate(t *testing.T) {
	server, queue := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	body := jsonBody(t, triggerSyncRequest{Date: "27-08-2026"})
	req := httptest.NewRequest("POST", "/api/v1/connections/conn-1/sync", body)
	req.SetPathValue("id", "conn-1")
	rr := httptest.NewRecorder()

	server.handleTriggerSync(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if queue.PendingCount() != 0 {
		t.Errorf("expected no queued tasks, got %d", queue.PendingCount())
	}
}

func TestTriggerSyncAllHandler(t *testing.T) {
	server, queue := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("POST", "/api/v1/cron/sync", nil)
	rr := httptest.NewRecorder()

	server.handleTriggerSyncAll(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rr.Code)
	}

	task, _ := queue.Dequeue(context.Background())
	if task == nil || task.Type != domain.TaskTypeSyncAll {
		t.Errorf("expected sync_all task, got %+v", task)
	}
}

// Closing endpoints

func TestListClosingsHandler(t *testing.T) {
	closings := &mockClosingService{
		listClosingsFn: func(ctx context.Context, date string) ([]*domain.DailySummary, error) {
			if date != "2026-08-27" {
				t.Errorf("expected date forwarded, got %q", date)
			}
			return []*domain.DailySummary{
				{LocationID: 10, LocationName: "Central", Date: date, Total: 150},
			}, nil
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("GET", "/api/v1/closings?date=2026-08-27", nil)
	rr := httptest.NewRecorder()

	server.handleListClosings(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var response []*domain.DailySummary
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].LocationName != "Central" {
		t.Errorf("unexpected response: %+v", response)
	}
}

func TestListClosingsHandler_BadDate(t *testing.T) {
	closings := &mockClosingService{
		listClosingsFn: func(ctx context.Context, date string) ([]*domain.DailySummary, error) {
			return nil, domain.ErrInvalidInput
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("GET", "/api/v1/closings?date=bogus", nil)
	rr := httptest.NewRecorder()

	server.handleListClosings(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestGetClosingHandler(t *testing.T) {
	closings := &mockClosingService{
		getClosingFn: func(ctx context.Context, locationID int64, date string) (*domain.DailySummary, error) {
			if locationID != 10 {
				t.Errorf("expected location 10, got %d", locationID)
			}
			return &domain.DailySummary{LocationID: locationID, Date: date}, nil
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("GET", "/api/v1/closings/10?date=2026-08-27", nil)
	req.SetPathValue("locationID", "10")
	rr := httptest.NewRecorder()

	server.handleGetClosing(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}

func TestGetClosingHandler_BadLocationID(t *testing.T) {
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("GET", "/api/v1/closings/abc?date=2026-08-27", nil)
	req.SetPathValue("locationID", "abc")
	rr := httptest.NewRecorder()

	server.handleGetClosing(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}

func TestMarkDeliveredHandler_NotFound(t *testing.T) {
	closings := &mockClosingService{
		markDeliveredFn: func(ctx context.Context, locationID int64, date string) error {
			return domain.ErrNotFound
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("POST", "/api/v1/closings/10/delivered?date=2026-08-27", nil)
	req.SetPathValue("locationID", "10")
	rr := httptest.NewRecorder()

	server.handleMarkDelivered(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
}

func TestListJobsHandler_ForwardsLimit(t *testing.T) {
	var gotLimit int
	closings := &mockClosingService{
		listJobsFn: func(ctx context.Context, limit int) ([]*domain.SyncJob, error) {
			gotLimit = limit
			return []*domain.SyncJob{}, nil
		},
	}
	server, _ := newTestServer(&mockAuthService{}, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("GET", "/api/v1/jobs?limit=5", nil)
	rr := httptest.NewRecorder()

	server.handleListJobs(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}
}

// Routing + middleware integration

func TestRouter_RequiresAuth(t *testing.T) {
	auth := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	server, _ := newTestServer(auth, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("GET", "/api/v1/connections", nil)
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rr.Code)
	}
}

func TestRouter_AdminOnlyMutation(t *testing.T) {
	auth := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return &domain.AuthContext{UserID: "u2", Role: domain.RoleViewer}, nil
		},
	}
	server, _ := newTestServer(auth, &mockUserService{}, &mockConnectionService{}, &mockClosingService{})

	req := httptest.NewRequest("POST", "/api/v1/connections", jsonBody(t, driving.CreateConnectionRequest{}))
	req.Header.Set("Authorization", "Bearer viewer-token")
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rr.Code)
	}
}

func TestRouter_ViewerCanReadClosings(t *testing.T) {
	auth := &mockAuthService{
		validateTokenFn: func(ctx context.Context, token string) (*domain.AuthContext, error) {
			return &domain.AuthContext{UserID: "u2", Role: domain.RoleViewer}, nil
		},
	}
	closings := &mockClosingService{
		listClosingsFn: func(ctx context.Context, date string) ([]*domain.DailySummary, error) {
			return []*domain.DailySummary{}, nil
		},
	}
	server, _ := newTestServer(auth, &mockUserService{}, &mockConnectionService{}, closings)

	req := httptest.NewRequest("GET", "/api/v1/closings?date=2026-08-27", nil)
	req.Header.Set("Authorization", "Bearer viewer-token")
	rr := httptest.NewRecorder()

	server.router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
}
