package http

import (
	"net/http"

	"floor-backend/internal/handlers"
	"floor-backend/internal/middleware"
	"floor-backend/internal/models"
	"floor-backend/internal/realtime"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Lines     *handlers.LineHandler
	Machines  *handlers.MachineHandler
	Schedules *handlers.ScheduleHandler
	Sessions  *handlers.SessionHandler
	Downtime  *handlers.DowntimeHandler
	Quality   *handlers.QualityHandler
	Dashboard *handlers.DashboardHandler
	Reports   *handlers.ReportHandler
	Import    *handlers.ImportHandler
	Health    *handlers.HealthHandler
	Live      *realtime.LiveFeed
	Alerts    *realtime.AlertHub
}

// Floor roles that record events at a station
var floorRoles = []string{models.RoleAdmin, models.RoleSupervisor, models.RoleMechanic, models.RoleQC}

func NewRouter(h Handlers, authMiddleware *middleware.AuthMiddleware, cors func(http.Handler) http.Handler, log *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.PanicRecovery(log), middleware.RequestLogger(log), middleware.MetricsMiddleware)

	// Public
	r.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/health", h.Health.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", h.Health.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", h.Health.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// WebSockets authenticate with a stream token in ?token=
	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authMiddleware.StreamAuth)
	ws.HandleFunc("/live/{collection}", h.Live.ServeWS)
	ws.HandleFunc("/alerts", h.Alerts.ServeWS)

	api := r.PathPrefix("/api").Subrouter()

	// Reads are open to every signed-in user
	read := api.NewRoute().Subrouter()
	read.Use(authMiddleware.Authenticate)
	read.HandleFunc("/me", h.Auth.Me).Methods("GET")
	read.HandleFunc("/stream-token", h.Auth.StreamToken).Methods("POST")
	read.HandleFunc("/lines", h.Lines.List).Methods("GET")
	read.HandleFunc("/lines/{id}", h.Lines.Get).Methods("GET")
	read.HandleFunc("/machines", h.Machines.List).Methods("GET")
	read.HandleFunc("/machines/{id}", h.Machines.Get).Methods("GET")
	read.HandleFunc("/schedules", h.Schedules.List).Methods("GET")
	read.HandleFunc("/schedules/{id}", h.Schedules.Get).Methods("GET")
	read.HandleFunc("/sessions", h.Sessions.List).Methods("GET")
	read.HandleFunc("/sessions/{id}", h.Sessions.Get).Methods("GET")
	read.HandleFunc("/downtime", h.Downtime.List).Methods("GET")
	read.HandleFunc("/downtime/{id}", h.Downtime.Get).Methods("GET")
	read.HandleFunc("/quality", h.Quality.List).Methods("GET")
	read.HandleFunc("/dashboard", h.Dashboard.Get).Methods("GET")
	read.HandleFunc("/dashboard/report.pdf", h.Reports.DashboardPDF).Methods("GET")

	// Floor events
	floor := api.NewRoute().Subrouter()
	floor.Use(authMiddleware.RequireRole(floorRoles...))
	floor.HandleFunc("/downtime", h.Downtime.Log).Methods("POST")
	floor.HandleFunc("/downtime/{id}/acknowledge", h.Downtime.Acknowledge).Methods("POST")
	floor.HandleFunc("/downtime/{id}/resolve", h.Downtime.Resolve).Methods("POST")
	floor.HandleFunc("/downtime/{id}/steps/{step}", h.Downtime.Step).Methods("POST")
	floor.HandleFunc("/downtime/{id}/close", h.Downtime.Close).Methods("POST")
	floor.HandleFunc("/quality", h.Quality.Log).Methods("POST")

	// Supervisors plan shifts and run sessions
	supervisor := api.NewRoute().Subrouter()
	supervisor.Use(authMiddleware.RequireRole(models.RoleAdmin, models.RoleSupervisor))
	supervisor.HandleFunc("/schedules", h.Schedules.Create).Methods("POST")
	supervisor.HandleFunc("/schedules/{id}", h.Schedules.Update).Methods("PUT")
	supervisor.HandleFunc("/schedules/{id}", h.Schedules.Delete).Methods("DELETE")
	supervisor.HandleFunc("/sessions", h.Sessions.Start).Methods("POST")
	supervisor.HandleFunc("/sessions/{id}/end", h.Sessions.End).Methods("POST")

	// Admin-only
	admin := api.NewRoute().Subrouter()
	admin.Use(authMiddleware.RequireAdmin)
	admin.HandleFunc("/lines", h.Lines.Create).Methods("POST")
	admin.HandleFunc("/lines/{id}", h.Lines.Update).Methods("PUT")
	admin.HandleFunc("/lines/{id}", h.Lines.Delete).Methods("DELETE")
	admin.HandleFunc("/machines", h.Machines.Create).Methods("POST")
	admin.HandleFunc("/machines/{id}", h.Machines.Update).Methods("PUT")
	admin.HandleFunc("/machines/{id}", h.Machines.Delete).Methods("DELETE")
	admin.HandleFunc("/downtime/{id}", h.Downtime.Delete).Methods("DELETE")
	admin.HandleFunc("/quality/{id}", h.Quality.Delete).Methods("DELETE")
	admin.HandleFunc("/import/{target}", h.Import.Import).Methods("POST")
	admin.HandleFunc("/users", h.Users.ListUsers).Methods("GET")
	admin.HandleFunc("/users", h.Users.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", h.Users.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id}", h.Users.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", h.Users.DeleteUser).Methods("DELETE")

	return cors(r)
}
