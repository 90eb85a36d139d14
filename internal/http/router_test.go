package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"floor-backend/internal/auth"
	"floor-backend/internal/config"
	"floor-backend/internal/handlers"
	"floor-backend/internal/health"
	"floor-backend/internal/middleware"
	"floor-backend/internal/models"
	"floor-backend/internal/realtime"
	"floor-backend/internal/repositories"
	"floor-backend/internal/services"
	"floor-backend/internal/store/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testServer struct {
	*httptest.Server
	users *services.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zap.NewNop()
	st := memstore.New(log)

	cfg := &config.Config{}
	cfg.JWT.Secret = "router-secret"
	cfg.JWT.Issuer = "floor-test"
	cfg.JWT.ExpirationHours = 1
	cfg.Server.CorsAllowedOrigins = []string{"*"}

	userRepo := repositories.NewUserRepository(st)
	lineRepo := repositories.NewLineRepository(st)
	machineRepo := repositories.NewMachineRepository(st)
	scheduleRepo := repositories.NewScheduleRepository(st)
	sessionRepo := repositories.NewSessionRepository(st)
	downtimeRepo := repositories.NewDowntimeRepository(st)
	qualityRepo := repositories.NewQualityRepository(st)

	jwtManager := auth.NewJWTManager(cfg)
	users := services.NewUserService(userRepo, jwtManager, log)
	dashboards := services.NewDashboardService(downtimeRepo, qualityRepo, sessionRepo, 0, 24*time.Hour, log)
	hub := realtime.NewAlertHub(log)

	router := NewRouter(Handlers{
		Auth:      handlers.NewAuthHandler(users, log),
		Users:     handlers.NewUserHandler(users, log),
		Lines:     handlers.NewLineHandler(services.NewLineService(lineRepo), log),
		Machines:  handlers.NewMachineHandler(services.NewMachineService(machineRepo), log),
		Schedules: handlers.NewScheduleHandler(services.NewScheduleService(scheduleRepo, lineRepo), log),
		Sessions:  handlers.NewSessionHandler(services.NewSessionService(sessionRepo, lineRepo, scheduleRepo, log), log),
		Downtime:  handlers.NewDowntimeHandler(services.NewDowntimeService(downtimeRepo, users, hub, log), log),
		Quality:   handlers.NewQualityHandler(services.NewQualityService(qualityRepo, hub, log), log),
		Dashboard: handlers.NewDashboardHandler(dashboards, log),
		Reports:   handlers.NewReportHandler(services.NewReportService(dashboards, nil, log), log),
		Import:    handlers.NewImportHandler(services.NewImportService(machineRepo, lineRepo, log), log),
		Health:    handlers.NewHealthHandler(health.NewHealthChecker(st, "memory")),
		Live:      realtime.NewLiveFeed(st, log),
		Alerts:    hub,
	}, middleware.NewAuthMiddleware(jwtManager, userRepo), middleware.NewCORS(cfg), log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, users: users}
}

// login creates a user with role and returns its id and bearer token
func (s *testServer) login(t *testing.T, role, passcode string) (string, string) {
	t.Helper()
	email := role + "@floor.test"
	u, err := s.users.CreateUser(context.Background(), &models.CreateUserRequest{
		Name: role, Email: email, Password: "password123", Role: role, Passcode: passcode,
	})
	require.NoError(t, err)

	resp := s.do(t, "", http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body models.AuthResponse
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return u.ID, body.Token
}

func (s *testServer) do(t *testing.T, token, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.login(t, models.RoleAdmin, "")

	resp := s.do(t, "", http.MethodPost, "/auth/login", map[string]string{"email": "admin@floor.test", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, "", http.MethodGet, "/api/lines", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLineAccessByRole(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.login(t, models.RoleAdmin, "")
	_, analyst := s.login(t, models.RoleAnalyst, "")

	resp := s.do(t, admin, http.MethodPost, "/api/lines", models.CreateLineRequest{Name: "Sewing", Code: "L1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = s.do(t, admin, http.MethodPost, "/api/lines", models.CreateLineRequest{Name: "Sewing again", Code: "L1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, analyst, http.MethodPost, "/api/lines", models.CreateLineRequest{Name: "Cutting", Code: "L2"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, analyst, http.MethodGet, "/api/lines", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lines []models.ProductionLine
	decode(t, resp, &lines)
	require.Len(t, lines, 1)
	assert.Equal(t, "L1", lines[0].Code)
}

func TestValidationErrorBody(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.login(t, models.RoleAdmin, "")

	resp := s.do(t, admin, http.MethodPost, "/api/lines", map[string]string{"code": "L9"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "is required", body.Fields["name"])
}

func TestDowntimeLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	_, sup := s.login(t, models.RoleSupervisor, "2222")
	mechID, _ := s.login(t, models.RoleMechanic, "1111")
	_, analyst := s.login(t, models.RoleAnalyst, "")

	resp := s.do(t, analyst, http.MethodPost, "/api/downtime", models.LogDowntimeRequest{Type: "machine", ProductionLineID: "L1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, sup, http.MethodPost, "/api/downtime", models.LogDowntimeRequest{Type: "machine", Reason: "Jam", ProductionLineID: "L1", MachineID: "M-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec models.DowntimeRecord
	decode(t, resp, &rec)
	require.NotEmpty(t, rec.ID)

	resp = s.do(t, sup, http.MethodPost, "/api/downtime/"+rec.ID+"/acknowledge", models.AcknowledgeRequest{MechanicID: mechID, Passcode: "0000"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, sup, http.MethodPost, "/api/downtime/"+rec.ID+"/acknowledge", models.AcknowledgeRequest{MechanicID: mechID, Passcode: "1111"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, sup, http.MethodPost, "/api/downtime/"+rec.ID+"/resolve", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, sup, http.MethodPost, "/api/downtime/"+rec.ID+"/resolve", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, analyst, http.MethodGet, "/api/downtime?line=L1&status=Resolved", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.DowntimeRecord
	decode(t, resp, &list)
	assert.Len(t, list, 1)

	resp = s.do(t, analyst, http.MethodGet, "/api/downtime?from=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, analyst, http.MethodGet, "/api/downtime/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDashboardAndReport(t *testing.T) {
	s := newTestServer(t)
	_, analyst := s.login(t, models.RoleAnalyst, "")

	resp := s.do(t, analyst, http.MethodGet, "/api/dashboard?period=week", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var d services.Dashboard
	decode(t, resp, &d)
	assert.Equal(t, "week", d.Period)

	resp = s.do(t, analyst, http.MethodGet, "/api/dashboard?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, analyst, http.MethodGet, "/api/dashboard/report.pdf?period=day", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "floor_report_day_")
}

func TestImportUpload(t *testing.T) {
	s := newTestServer(t)
	_, admin := s.login(t, models.RoleAdmin, "")

	upload := func(target, content string) *http.Response {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", target+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, s.URL+"/api/import/"+target, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+admin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := upload("lines", "Name,Code\nSewing,L1\nCutting,L2\n")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var result services.ImportResult
	decode(t, resp, &result)
	assert.Equal(t, 2, result.Imported)

	resp = upload("lines", "Name,Code\nFinishing,L3\nDuplicate,L1\n")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = upload("styles", "Name\nPolo\n")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, "", http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status health.HealthStatus
	decode(t, resp, &status)
	assert.Equal(t, health.StatusHealthy, status.Status)
	assert.Equal(t, health.StatusDisabled, status.Cache.Status)

	resp = s.do(t, "", http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, s.URL+"/api/lines", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://floor.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.True(t, strings.Contains(resp.Header.Get("Access-Control-Allow-Methods"), "POST"))
}
