package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"floor-backend/internal/auth"
	"floor-backend/internal/config"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/store/memstore"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordedAlerts struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (r *recordedAlerts) Publish(a models.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, a)
}

func (r *recordedAlerts) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.alerts))
	for _, a := range r.alerts {
		out = append(out, a.Status)
	}
	return out
}

type testEnv struct {
	users     *UserService
	downtime  *DowntimeService
	quality   *QualityService
	lines     *LineService
	machines  *MachineService
	schedules *ScheduleService
	sessions  *SessionService
	dashboard *DashboardService
	imports   *ImportService
	alerts    *recordedAlerts
	clock     *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	st := memstore.New(log)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "floor-test"
	cfg.JWT.ExpirationHours = 1

	clock := &fakeClock{now: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)}
	alerts := &recordedAlerts{}

	lineRepo := repositories.NewLineRepository(st)
	machineRepo := repositories.NewMachineRepository(st)
	scheduleRepo := repositories.NewScheduleRepository(st)
	sessionRepo := repositories.NewSessionRepository(st)
	downtimeRepo := repositories.NewDowntimeRepository(st)
	qualityRepo := repositories.NewQualityRepository(st)

	env := &testEnv{
		users:     NewUserService(repositories.NewUserRepository(st), auth.NewJWTManager(cfg), log),
		lines:     NewLineService(lineRepo),
		machines:  NewMachineService(machineRepo),
		schedules: NewScheduleService(scheduleRepo, lineRepo),
		sessions:  NewSessionService(sessionRepo, lineRepo, scheduleRepo, log),
		imports:   NewImportService(machineRepo, lineRepo, log),
		alerts:    alerts,
		clock:     clock,
	}
	env.downtime = NewDowntimeService(downtimeRepo, env.users, alerts, log)
	env.downtime.Now = clock.Now
	env.quality = NewQualityService(qualityRepo, alerts, log)
	env.quality.Now = clock.Now
	env.sessions.Now = clock.Now
	env.dashboard = NewDashboardService(downtimeRepo, qualityRepo, sessionRepo, 0, 24*time.Hour, log)
	env.dashboard.Now = clock.Now
	return env
}

func (e *testEnv) user(t *testing.T, role, email, passcode string) *models.User {
	t.Helper()
	u, err := e.users.CreateUser(context.Background(), &models.CreateUserRequest{
		Name:     role + " user",
		Email:    email,
		Password: "password123",
		Role:     role,
		Passcode: passcode,
	})
	require.NoError(t, err)
	return u
}
