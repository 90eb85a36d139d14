// Package health reports the state of the service's dependencies.
package health

import (
	"context"
	"runtime"
	"time"

	"floor-backend/internal/cache"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is satisfied by every store backend
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store   Pinger
	backend string
	started time.Time
}

type HealthStatus struct {
	Status string          `json:"status"`
	Store  ComponentHealth `json:"store"`
	Cache  ComponentHealth `json:"cache"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	Backend      string `json:"backend,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

type HostStats struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsedMB  uint64  `json:"memory_used_mb"`
	DiskPercent   float64 `json:"disk_percent"`
	Goroutines    int     `json:"goroutines"`
}

type DetailedStatus struct {
	HealthStatus
	Host          HostStats `json:"host"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

func NewHealthChecker(store Pinger, backend string) *HealthChecker {
	return &HealthChecker{store: store, backend: backend, started: time.Now()}
}

// CheckBasic pings the store and the cache. The cache is optional, so a
// missing cache never makes the service unhealthy.
func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	storeHealth := h.checkStore(ctx)
	cacheHealth := checkCache(ctx)

	status := StatusHealthy
	if storeHealth.Status != StatusHealthy || cacheHealth.Status == StatusUnhealthy {
		status = StatusUnhealthy
	}
	return HealthStatus{Status: status, Store: storeHealth, Cache: cacheHealth}
}

// CheckDetailed adds host resource usage to the basic check
func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	return DetailedStatus{
		HealthStatus:  h.CheckBasic(ctx),
		Host:          hostStats(ctx),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
	}
}

func (h *HealthChecker) checkStore(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	out := ComponentHealth{
		Status:       StatusHealthy,
		Backend:      h.backend,
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if err != nil {
		out.Status = StatusUnhealthy
		out.Error = err.Error()
	}
	return out
}

func checkCache(ctx context.Context) ComponentHealth {
	if cache.GetClient() == nil {
		return ComponentHealth{Status: StatusDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := cache.Ping(ctx)
	out := ComponentHealth{Status: StatusHealthy, Backend: "redis", ResponseTime: time.Since(start).Milliseconds()}
	if err != nil {
		out.Status = StatusUnhealthy
		out.Error = err.Error()
	}
	return out
}

// hostStats samples host usage; figures gopsutil cannot read stay zero
func hostStats(ctx context.Context) HostStats {
	stats := HostStats{Goroutines: runtime.NumGoroutine()}

	if pct, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(pct) > 0 {
		stats.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		stats.MemoryPercent = vm.UsedPercent
		stats.MemoryUsedMB = vm.Used / 1024 / 1024
	}
	if du, err := disk.UsageWithContext(ctx, "/"); err == nil {
		stats.DiskPercent = du.UsedPercent
	}
	return stats
}
