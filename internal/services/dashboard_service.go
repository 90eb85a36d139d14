package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"floor-backend/internal/analytics"
	"floor-backend/internal/cache"
	"floor-backend/internal/metrics"
	"floor-backend/internal/models"
	"floor-backend/internal/repositories"
	"floor-backend/internal/timeutil"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardRequest selects the window and line of a dashboard. From and
// To, when both set, override Period.
type DashboardRequest struct {
	Period string
	LineID string
	From   time.Time
	To     time.Time
}

type DashboardCharts struct {
	MachineReasons    []analytics.ChartPoint `json:"machineReasons"`
	SupplyReasons     []analytics.ChartPoint `json:"supplyReasons"`
	ChangeoverReasons []analytics.ChartPoint `json:"changeoverReasons"`
	Categories        []analytics.ChartPoint `json:"categories"`
}

type Dashboard struct {
	Period         string                      `json:"period"`
	LineID         string                      `json:"lineId,omitempty"`
	Window         analytics.PeriodWindow      `json:"window"`
	PreviousWindow analytics.PeriodWindow      `json:"previousWindow"`
	Overview       analytics.Overview          `json:"overview"`
	Machine        analytics.MachineSummary    `json:"machine"`
	Supply         analytics.CategorySummary   `json:"supply"`
	Changeover     analytics.ChangeoverSummary `json:"changeover"`
	Rejects        analytics.QualitySummary    `json:"rejects"`
	Reworks        analytics.QualitySummary    `json:"reworks"`
	Charts         DashboardCharts             `json:"charts"`
	GeneratedAt    time.Time                   `json:"generatedAt"`
}

type DashboardService struct {
	Downtime *repositories.DowntimeRepository
	Quality  *repositories.QualityRepository
	Sessions *repositories.SessionRepository
	CacheTTL time.Duration
	// MaxSession bounds how far before a window a session may have started
	// and still overlap it.
	MaxSession time.Duration
	Now        func() time.Time
	log        *zap.Logger
}

func NewDashboardService(downtime *repositories.DowntimeRepository, quality *repositories.QualityRepository, sessions *repositories.SessionRepository, cacheTTL, maxSession time.Duration, log *zap.Logger) *DashboardService {
	return &DashboardService{
		Downtime:   downtime,
		Quality:    quality,
		Sessions:   sessions,
		CacheTTL:   cacheTTL,
		MaxSession: maxSession,
		Now:        func() time.Time { return time.Now().UTC() },
		log:        log.Named("dashboard"),
	}
}

// Window resolves the current window of a request
func (s *DashboardService) Window(req DashboardRequest) (string, analytics.PeriodWindow, error) {
	if !req.From.IsZero() || !req.To.IsZero() {
		w, err := analytics.CustomWindow(req.From, req.To)
		if err != nil {
			return "", w, invalid("from", err.Error())
		}
		return analytics.PeriodCustom, w, nil
	}

	period := req.Period
	if period == "" {
		period = analytics.PeriodToday
	}
	w, err := analytics.ResolvePeriod(period, s.Now(), timeutil.Location())
	if errors.Is(err, analytics.ErrUnknownPeriod) {
		return "", w, invalid("period", "must be one of: today day week month quarter year")
	}
	return period, w, err
}

// Dashboard builds the full dashboard for a window and the window before it
func (s *DashboardService) Dashboard(ctx context.Context, req DashboardRequest) (*Dashboard, error) {
	period, window, err := s.Window(req)
	if err != nil {
		return nil, err
	}

	key := cacheKey(period, req.LineID, window)
	if data, ok := cache.GetCached(ctx, key); ok {
		var d Dashboard
		if err := json.Unmarshal(data, &d); err == nil {
			metrics.DashboardCache.WithLabelValues("hit").Inc()
			return &d, nil
		}
	}
	metrics.DashboardCache.WithLabelValues("miss").Inc()

	d, err := s.build(ctx, period, req.LineID, window)
	if err != nil {
		return nil, err
	}

	if s.CacheTTL > 0 {
		if data, err := json.Marshal(d); err == nil {
			cache.SetCached(ctx, key, data, s.CacheTTL)
		}
	}
	return d, nil
}

func cacheKey(period, lineID string, w analytics.PeriodWindow) string {
	key := fmt.Sprintf("dashboard:%s:%s:%d", period, lineID, w.End.Truncate(time.Minute).Unix())
	if period == analytics.PeriodCustom {
		key += fmt.Sprintf(":%d", w.Start.Unix())
	}
	return key
}

func (s *DashboardService) build(ctx context.Context, period, lineID string, window analytics.PeriodWindow) (*Dashboard, error) {
	prevWindow := window.Previous()

	var (
		curDowntime, prevDowntime []models.DowntimeRecord
		curQuality, prevQuality   []models.QualityIssue
		sessions                  []models.ProductionSession
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curDowntime, err = s.Downtime.List(gctx, models.DowntimeFilter{ProductionLineID: lineID, From: window.Start, To: window.End})
		if err != nil {
			return fmt.Errorf("fetch downtime: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prevDowntime, err = s.Downtime.List(gctx, models.DowntimeFilter{ProductionLineID: lineID, From: prevWindow.Start, To: prevWindow.End})
		if err != nil {
			return fmt.Errorf("fetch previous downtime: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		curQuality, err = s.Quality.List(gctx, models.QualityFilter{ProductionLineID: lineID, From: window.Start, To: window.End})
		if err != nil {
			return fmt.Errorf("fetch quality issues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prevQuality, err = s.Quality.List(gctx, models.QualityFilter{ProductionLineID: lineID, From: prevWindow.Start, To: prevWindow.End})
		if err != nil {
			return fmt.Errorf("fetch previous quality issues: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sessions, err = s.Sessions.StartedBetween(gctx, lineID, prevWindow.Start.Add(-s.MaxSession), window.End)
		if err != nil {
			return fmt.Errorf("fetch sessions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := s.Now()
	curMachine, curSupply, curChangeover := analytics.SplitDowntime(curDowntime)
	prevMachine, prevSupply, prevChangeover := analytics.SplitDowntime(prevDowntime)
	curRejects, curReworks := analytics.SplitQuality(curQuality)
	prevRejects, prevReworks := analytics.SplitQuality(prevQuality)

	machine := analytics.AggregateMachine(curMachine, prevMachine)
	supply := analytics.AggregateSupply(curSupply, prevSupply)
	changeover := analytics.AggregateChangeover(curChangeover, prevChangeover)
	prevMachineSum := analytics.AggregateMachine(prevMachine, nil)
	prevSupplySum := analytics.AggregateSupply(prevSupply, nil)
	prevChangeoverSum := analytics.AggregateChangeover(prevChangeover, nil)

	overview := analytics.BuildOverview(
		analytics.WindowTotals{
			Machine:        machine.TotalTime,
			Supply:         supply.TotalTime,
			Changeover:     changeover.TotalTime,
			SessionMinutes: sessionMinutes(sessions, window, now),
		},
		analytics.WindowTotals{
			Machine:        prevMachineSum.TotalTime,
			Supply:         prevSupplySum.TotalTime,
			Changeover:     prevChangeoverSum.TotalTime,
			SessionMinutes: sessionMinutes(sessions, prevWindow, now),
		},
	)

	d := &Dashboard{
		Period:         period,
		LineID:         lineID,
		Window:         window,
		PreviousWindow: prevWindow,
		Overview:       overview,
		Machine:        machine,
		Supply:         supply,
		Changeover:     changeover,
		Rejects:        analytics.AggregateQuality(curRejects, prevRejects),
		Reworks:        analytics.AggregateQuality(curReworks, prevReworks),
		Charts: DashboardCharts{
			MachineReasons:    analytics.ReasonChart(machine.TopReasons),
			SupplyReasons:     analytics.ReasonChart(supply.TopReasons),
			ChangeoverReasons: analytics.ReasonChart(changeover.TopReasons),
			Categories:        overview.ByCategory,
		},
		GeneratedAt: now,
	}

	s.log.Debug("dashboard built",
		zap.String("period", period),
		zap.String("line", lineID),
		zap.Int("downtime_records", len(curDowntime)),
		zap.Int("quality_issues", len(curQuality)))
	return d, nil
}

func sessionMinutes(sessions []models.ProductionSession, w analytics.PeriodWindow, now time.Time) float64 {
	var total float64
	for _, s := range sessions {
		total += s.MinutesWithin(w.Start, w.End, now)
	}
	return total
}
