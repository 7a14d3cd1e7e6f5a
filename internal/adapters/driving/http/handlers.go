package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/andina-labs/cierre-core/internal/core/domain"
	"github.com/andina-labs/cierre-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// TaskResponse is returned when a background task has been queued
// @Description Queued background task
type TaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status" example:"queued"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks database and queue backends)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backend is unavailable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      User login
// @Description  Authenticate with email and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials or account disabled"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrUnauthorized):
			writeError(w, http.StatusUnauthorized, "account disabled")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleLogout godoc
// @Summary      Logout user
// @Description  Invalidate the current session token
// @Tags         Authentication
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  StatusResponse
// @Router       /auth/logout [post]
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r)
	if token != "" {
		_ = s.authService.Logout(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// User endpoints

// handleGetMe godoc
// @Summary      Get current user
// @Description  Get the currently authenticated user's profile
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserSummary
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Router       /me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleListUsers godoc
// @Summary      List users
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.UserSummary
// @Router       /users [get]
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// handleCreateUser godoc
// @Summary      Create user
// @Description  Create a new operator account (admin only)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateUserRequest  true  "User details"
// @Success      201      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      409      {object}  ErrorResponse  "Email already registered"
// @Router       /users [post]
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.userService.Create(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email, password, name and role are required")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleDeleteUser godoc
// @Summary      Delete user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Router       /users/{id} [delete]
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Connection endpoints

// handleListConnections godoc
// @Summary      List ERP connections
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Connection
// @Router       /connections [get]
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	connections, err := s.connectionService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list connections")
		return
	}
	writeJSON(w, http.StatusOK, connections)
}

// handleCreateConnection godoc
// @Summary      Register ERP connection
// @Description  Register a new ERP connection. The API key is encrypted at rest
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.CreateConnectionRequest  true  "Connection details"
// @Success      201      {object}  domain.Connection
// @Failure      400      {object}  ErrorResponse  "Invalid input"
// @Failure      409      {object}  ErrorResponse  "Name already in use"
// @Router       /connections [post]
func (s *Server) handleCreateConnection(w http.ResponseWriter, r *http.Request) {
	var req driving.CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authCtx := GetAuthContext(r.Context())
	creatorID := ""
	if authCtx != nil {
		creatorID = authCtx.UserID
	}

	conn, err := s.connectionService.Create(r.Context(), creatorID, req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "name, base_url, database, username and api_key are required")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "connection name already in use")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create connection")
		}
		return
	}

	writeJSON(w, http.StatusCreated, conn)
}

// handleGetConnection godoc
// @Summary      Get ERP connection
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  domain.Connection
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Router       /connections/{id} [get]
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := s.connectionService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "connection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get connection")
		return
	}
	writeJSON(w, http.StatusOK, conn)
}

// handleUpdateConnection godoc
// @Summary      Update ERP connection
// @Description  Partially update a connection. A new api_key is re-encrypted
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Connection ID"
// @Param        request  body      driving.UpdateConnectionRequest  true  "Fields to update"
// @Success      200      {object}  domain.Connection
// @Failure      404      {object}  ErrorResponse  "Connection not found"
// @Router       /connections/{id} [put]
func (s *Server) handleUpdateConnection(w http.ResponseWriter, r *http.Request) {
	var req driving.UpdateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conn, err := s.connectionService.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "connection not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid input")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusConflict, "connection name already in use")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update connection")
		}
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// handleDeleteConnection godoc
// @Summary      Delete ERP connection
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Router       /connections/{id} [delete]
func (s *Server) handleDeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := s.connectionService.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "connection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete connection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEnableConnection godoc
// @Summary      Enable connection for scheduled syncs
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Router       /connections/{id}/enable [post]
func (s *Server) handleEnableConnection(w http.ResponseWriter, r *http.Request) {
	s.setConnectionEnabled(w, r, true)
}

// handleDisableConnection godoc
// @Summary      Disable connection
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Router       /connections/{id}/disable [post]
func (s *Server) handleDisableConnection(w http.ResponseWriter, r *http.Request) {
	s.setConnectionEnabled(w, r, false)
}

func (s *Server) setConnectionEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	id := r.PathValue("id")
	var err error
	if enabled {
		err = s.connectionService.Enable(r.Context(), id)
	} else {
		err = s.connectionService.Disable(r.Context(), id)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "connection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update connection")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestConnection godoc
// @Summary      Test ERP credentials
// @Description  Verify credentials against the ERP without storing anything
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.ConnectionParams  true  "Connection parameters"
// @Success      200      {object}  domain.TestResult
// @Failure      401      {object}  ErrorResponse  "ERP rejected the credentials"
// @Router       /connections/test [post]
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var params domain.ConnectionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.connectionService.Test(r.Context(), params)
	if err != nil {
		s.writeTestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTestStoredConnection godoc
// @Summary      Test stored connection credentials
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  domain.TestResult
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Failure      401  {object}  ErrorResponse  "ERP rejected the credentials"
// @Router       /connections/{id}/test [post]
func (s *Server) handleTestStoredConnection(w http.ResponseWriter, r *http.Request) {
	result, err := s.connectionService.TestStored(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeTestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeTestError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "connection not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "base_url, database, username and api_key are required")
	case errors.Is(err, domain.ErrAuthenticationFailed):
		writeError(w, http.StatusUnauthorized, "erp rejected the credentials")
	case errors.Is(err, domain.ErrCredentialUnavailable):
		writeError(w, http.StatusConflict, "stored credentials cannot be decrypted")
	default:
		writeError(w, http.StatusBadGateway, "erp connection failed")
	}
}

// Sync triggers

type triggerSyncRequest struct {
	Date string `json:"date,omitempty"` // "2006-01-02", empty for today
}

// handleTriggerSync godoc
// @Summary      Trigger sync for one connection
// @Description  Queue a background sync of one connection's daily closings
// @Tags         Sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true   "Connection ID"
// @Param        request  body      triggerSyncRequest  false  "Target date, defaults to today"
// @Success      202      {object}  TaskResponse
// @Failure      400      {object}  ErrorResponse  "Invalid date"
// @Router       /connections/{id}/sync [post]
func (s *Server) handleTriggerSync(w http.ResponseWriter, r *http.Request) {
	var req triggerSyncRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Date != "" {
		if _, err := time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
			return
		}
	}

	task := domain.NewSyncConnectionTask(r.PathValue("id"), req.Date)
	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue sync")
		return
	}

	writeJSON(w, http.StatusAccepted, TaskResponse{TaskID: task.ID, Status: "queued"})
}

// handleTriggerSyncAll godoc
// @Summary      Trigger sync for all enabled connections
// @Description  Queue a background sync of every enabled connection
// @Tags         Sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  TaskResponse
// @Router       /cron/sync [post]
func (s *Server) handleTriggerSyncAll(w http.ResponseWriter, r *http.Request) {
	task := domain.NewSyncAllTask()
	if err := s.taskQueue.Enqueue(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to queue sync")
		return
	}
	writeJSON(w, http.StatusAccepted, TaskResponse{TaskID: task.ID, Status: "queued"})
}

// Closing endpoints

// handleListClosings godoc
// @Summary      List daily closings
// @Description  List all location closings for a calendar date
// @Tags         Closings
// @Produce      json
// @Security     BearerAuth
// @Param        date  query     string  true  "Calendar date (2006-01-02)"
// @Success      200   {array}   domain.DailySummary
// @Failure      400   {object}  ErrorResponse  "Invalid date"
// @Router       /closings [get]
func (s *Server) handleListClosings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	closings, err := s.closingService.ListClosings(r.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list closings")
		return
	}
	writeJSON(w, http.StatusOK, closings)
}

// handleGetClosing godoc
// @Summary      Get one location's closing
// @Tags         Closings
// @Produce      json
// @Security     BearerAuth
// @Param        locationID  path      int     true  "POS location ID"
// @Param        date        query     string  true  "Calendar date (2006-01-02)"
// @Success      200         {object}  domain.DailySummary
// @Failure      404         {object}  ErrorResponse  "Closing not found"
// @Router       /closings/{locationID} [get]
func (s *Server) handleGetClosing(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(r.PathValue("locationID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	closing, err := s.closingService.GetClosing(r.Context(), locationID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "closing not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get closing")
		}
		return
	}
	writeJSON(w, http.StatusOK, closing)
}

// handleMarkDelivered godoc
// @Summary      Mark closing as delivered
// @Description  Flag a location's closing for a date as delivered to its recipients
// @Tags         Closings
// @Produce      json
// @Security     BearerAuth
// @Param        locationID  path      int     true  "POS location ID"
// @Param        date        query     string  true  "Calendar date (2006-01-02)"
// @Success      200         {object}  StatusResponse
// @Failure      404         {object}  ErrorResponse  "Closing not found"
// @Router       /closings/{locationID}/delivered [post]
func (s *Server) handleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	locationID, err := strconv.ParseInt(r.PathValue("locationID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid location id")
		return
	}

	err = s.closingService.MarkDelivered(r.Context(), locationID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "date must be formatted 2006-01-02")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "closing not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to mark closing delivered")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListConnectionClosings godoc
// @Summary      List closings for a connection
// @Description  List a connection's closings within an inclusive date range
// @Tags         Closings
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Connection ID"
// @Param        from  query     string  false  "Range start (2006-01-02)"
// @Param        to    query     string  false  "Range end (2006-01-02)"
// @Success      200   {array}   domain.DailySummary
// @Failure      400   {object}  ErrorResponse  "Invalid date"
// @Router       /connections/{id}/closings [get]
func (s *Server) handleListConnectionClosings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	closings, err := s.closingService.ListClosingsByConnection(
		r.Context(), r.PathValue("id"), query.Get("from"), query.Get("to"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "dates must be formatted 2006-01-02")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list closings")
		return
	}
	writeJSON(w, http.StatusOK, closings)
}

// Sync job endpoints

// handleListJobs godoc
// @Summary      List sync jobs
// @Description  List recent sync jobs, newest first
// @Tags         Sync
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Maximum jobs to return"
// @Success      200    {array}  domain.SyncJob
// @Router       /jobs [get]
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.closingService.ListJobs(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// handleListConnectionJobs godoc
// @Summary      List sync jobs for a connection
// @Tags         Sync
// @Produce      json
// @Security     BearerAuth
// @Param        id     path     string  true   "Connection ID"
// @Param        limit  query    int     false  "Maximum jobs to return"
// @Success      200    {array}  domain.SyncJob
// @Router       /connections/{id}/jobs [get]
func (s *Server) handleListConnectionJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.closingService.ListJobsByConnection(r.Context(), r.PathValue("id"), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func parseLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
