package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/observability"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

// SchedulerStats is a point-in-time snapshot of the auto-scheduler.
type SchedulerStats struct {
	Running          bool       `json:"running"`
	IntervalSeconds  int        `json:"interval_seconds"`
	TotalRuns        int64      `json:"total_runs"`
	TotalMatches     int64      `json:"total_matches"`
	TotalAssignments int64      `json:"total_assignments"`
	LastRunTime      *time.Time `json:"last_run_time"`
	LastRunMatches   int64      `json:"last_run_matches"`
}

// AutoScheduler periodically pairs deadheading trips with available
// loads. Cycles are serialized: a forced run and a ticker run never
// overlap, and Stop waits for any in-flight cycle to finish.
type AutoScheduler struct {
	store    storage.Store
	pipeline *services.MatchingPipeline
	log      logger.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// cycleMu serializes RunCycle against itself.
	cycleMu sync.Mutex

	statsMu          sync.Mutex
	totalRuns        int64
	totalMatches     int64
	totalAssignments int64
	lastRunTime      *time.Time
	lastRunMatches   int64
}

func NewAutoScheduler(store storage.Store, pipeline *services.MatchingPipeline, log logger.Logger, interval time.Duration) *AutoScheduler {
	if interval <= 0 {
		interval = 120 * time.Second
	}
	return &AutoScheduler{
		store:    store,
		pipeline: pipeline,
		log:      log,
		interval: interval,
		now:      time.Now,
	}
}

// Start launches the ticker loop. Calling Start on a running scheduler
// is a no-op.
func (a *AutoScheduler) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		a.log.Warning("auto-scheduler already running")
		return
	}
	a.running = true
	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})

	go a.loop(a.stopCh, a.doneCh)
	a.log.Info("auto-scheduler started",
		logger.Int("interval_seconds", int(a.interval.Seconds())))
}

// Stop signals the loop and blocks until the current cycle, if any,
// has finished. Stopping an idle scheduler is a no-op.
func (a *AutoScheduler) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	a.running = false
	close(a.stopCh)
	done := a.doneCh
	a.mu.Unlock()

	<-done
	a.log.Info("auto-scheduler stopped")
}

// Running reports whether the ticker loop is active.
func (a *AutoScheduler) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// ForceRun executes one cycle immediately, regardless of whether the
// ticker loop is running.
func (a *AutoScheduler) ForceRun() {
	a.RunCycle()
}

func (a *AutoScheduler) loop(stopCh, doneCh chan struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.RunCycle()
		}
	}
}

// RunCycle matches every unmatched deadheading trip against the current
// pool of available loads. A load assigned earlier in the cycle is not
// offered to later trips. One trip failing never aborts the cycle.
func (a *AutoScheduler) RunCycle() {
	a.cycleMu.Lock()
	defer a.cycleMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("scheduler cycle panicked", logger.Any("panic", r))
		}
	}()

	runTime := a.now()
	var cycleMatches, cycleAssignments int64

	trips, err := a.store.GetUnmatchedDeadheadingTrips()
	if err != nil {
		a.log.Error("scheduler failed to list trips", logger.Error(err))
		a.finishCycle(runTime, 0, 0)
		return
	}
	loads, err := a.store.GetAvailableLoads()
	if err != nil {
		a.log.Error("scheduler failed to list loads", logger.Error(err))
		a.finishCycle(runTime, 0, 0)
		return
	}

	pool := make([]*models.Load, len(loads))
	copy(pool, loads)

	for _, trip := range trips {
		if len(pool) == 0 {
			break
		}
		matches, assignedID := a.scheduleTrip(trip, pool)
		cycleMatches += matches
		if assignedID != "" {
			cycleAssignments++
			pool = removeLoad(pool, assignedID)
		}
	}

	a.finishCycle(runTime, cycleMatches, cycleAssignments)
	a.log.Info("scheduler cycle complete",
		logger.Int("trips", len(trips)),
		logger.Int64("matches", cycleMatches),
		logger.Int64("assignments", cycleAssignments))
}

// scheduleTrip ranks the pool for one trip and commits the best
// profitable candidate, walking down the list when a candidate is
// taken by a concurrent writer. Returns the number of profitable
// matches found and the assigned load ID, if any.
func (a *AutoScheduler) scheduleTrip(trip *models.Trip, pool []*models.Load) (matches int64, assignedID string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("scheduler trip panicked",
				logger.String("trip_id", trip.TripID), logger.Any("panic", r))
			matches, assignedID = 0, ""
		}
	}()

	opportunities := a.pipeline.GetOpportunities(trip, pool)
	for _, opp := range opportunities {
		// Degraded results carry no profitability data and are
		// never auto-committed.
		if opp.Calculation == nil || opp.Calculation.NetProfit <= 0 {
			continue
		}
		matches++
	}
	observability.SchedulerMatchesTotal.Add(float64(matches))

	for _, opp := range opportunities {
		if opp.Calculation == nil || opp.Calculation.NetProfit <= 0 {
			continue
		}
		if err := a.store.AssignLoad(opp.Load.LoadID, trip.TripID, trip.DriverID); err != nil {
			if errors.Is(err, storage.ErrConflict) || errors.Is(err, storage.ErrNotFound) {
				continue
			}
			a.log.Error("scheduler assignment failed",
				logger.String("trip_id", trip.TripID),
				logger.String("load_id", opp.Load.LoadID),
				logger.Error(err))
			continue
		}
		observability.SchedulerAssignmentsTotal.Inc()
		a.log.Info("scheduler assigned load",
			logger.String("trip_id", trip.TripID),
			logger.String("load_id", opp.Load.LoadID),
			logger.Float64("net_profit", opp.Calculation.NetProfit))
		return matches, opp.Load.LoadID
	}
	return matches, ""
}

func (a *AutoScheduler) finishCycle(runTime time.Time, matches, assignments int64) {
	observability.SchedulerCyclesTotal.Inc()
	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	a.totalRuns++
	a.totalMatches += matches
	a.totalAssignments += assignments
	a.lastRunTime = &runTime
	a.lastRunMatches = matches
}

// Stats returns a snapshot of the scheduler's counters.
func (a *AutoScheduler) Stats() SchedulerStats {
	a.statsMu.Lock()
	defer a.statsMu.Unlock()
	return SchedulerStats{
		Running:          a.Running(),
		IntervalSeconds:  int(a.interval.Seconds()),
		TotalRuns:        a.totalRuns,
		TotalMatches:     a.totalMatches,
		TotalAssignments: a.totalAssignments,
		LastRunTime:      a.lastRunTime,
		LastRunMatches:   a.lastRunMatches,
	}
}

func removeLoad(pool []*models.Load, loadID string) []*models.Load {
	out := pool[:0]
	for _, l := range pool {
		if l.LoadID != loadID {
			out = append(out, l)
		}
	}
	return out
}
