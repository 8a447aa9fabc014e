package jobs

import (
	"testing"
	"time"

	"github.com/ReturnKart/backhaul-backend/internal/config"
	"github.com/ReturnKart/backhaul-backend/internal/logger"
	"github.com/ReturnKart/backhaul-backend/internal/models"
	"github.com/ReturnKart/backhaul-backend/internal/services"
	"github.com/ReturnKart/backhaul-backend/internal/storage"
)

var (
	delhi     = models.Coordinate{Lat: 28.6139, Lng: 77.2090}
	rohini    = models.Coordinate{Lat: 28.7041, Lng: 77.1025}
	cp        = models.Coordinate{Lat: 28.6517, Lng: 77.2219}
	pitampura = models.Coordinate{Lat: 28.6900, Lng: 77.1500}
)

func newTestScheduler(store storage.Store) *AutoScheduler {
	cfg := config.DefaultEngineConfig()
	pipeline := services.NewMatchingPipeline(services.NewMathEngine(cfg), cfg, logger.NewNop())
	return NewAutoScheduler(store, pipeline, logger.NewNop(), time.Hour)
}

func addDeadheadingTrip(t *testing.T, store storage.Store, id string) *models.Trip {
	t.Helper()
	trip, err := store.CreateTrip(&models.Trip{
		TripID:      id,
		DriverID:    "DRV-" + id,
		Origin:      delhi,
		Destination: rohini,
		Deadheading: true,
	})
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	return trip
}

func addLoad(t *testing.T, store storage.Store, id string, price float64) *models.Load {
	t.Helper()
	l, err := store.CreateLoad(&models.Load{
		LoadID:       id,
		Pickup:       cp,
		Dropoff:      pitampura,
		PriceOffered: price,
	})
	if err != nil {
		t.Fatalf("CreateLoad: %v", err)
	}
	return l
}

func TestRunCycleAssignsBestLoad(t *testing.T) {
	store := storage.NewMemoryStore()
	addDeadheadingTrip(t, store, "TRIP-1")
	addLoad(t, store, "L-LOW", 3000)
	addLoad(t, store, "L-HIGH", 5000)

	s := newTestScheduler(store)
	s.RunCycle()

	l, err := store.GetLoadByTrip("TRIP-1")
	if err != nil {
		t.Fatalf("trip has no load after cycle: %v", err)
	}
	if l.LoadID != "L-HIGH" {
		t.Errorf("assigned %s, want L-HIGH", l.LoadID)
	}
	if l.Status != models.LoadStatusAssigned {
		t.Errorf("load status = %s, want assigned", l.Status)
	}
	if l.AssignedDriverID != "DRV-TRIP-1" {
		t.Errorf("driver = %s, want DRV-TRIP-1", l.AssignedDriverID)
	}

	stats := s.Stats()
	if stats.TotalRuns != 1 {
		t.Errorf("TotalRuns = %d, want 1", stats.TotalRuns)
	}
	if stats.TotalAssignments != 1 {
		t.Errorf("TotalAssignments = %d, want 1", stats.TotalAssignments)
	}
	if stats.TotalMatches != 2 {
		t.Errorf("TotalMatches = %d, want 2", stats.TotalMatches)
	}
	if stats.LastRunTime == nil {
		t.Error("LastRunTime not set")
	}
}

func TestRunCycleOneLoadPerTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	addDeadheadingTrip(t, store, "TRIP-A")
	addDeadheadingTrip(t, store, "TRIP-B")
	addLoad(t, store, "L-ONLY", 5000)

	s := newTestScheduler(store)
	s.RunCycle()

	assigned := 0
	for _, tripID := range []string{"TRIP-A", "TRIP-B"} {
		if _, err := store.GetLoadByTrip(tripID); err == nil {
			assigned++
		}
	}
	if assigned != 1 {
		t.Errorf("%d trips got the single load, want exactly 1", assigned)
	}
	if s.Stats().TotalAssignments != 1 {
		t.Errorf("TotalAssignments = %d, want 1", s.Stats().TotalAssignments)
	}
}

func TestRunCycleSkipsUnprofitableLoads(t *testing.T) {
	store := storage.NewMemoryStore()
	addDeadheadingTrip(t, store, "TRIP-1")
	addLoad(t, store, "L-CHEAP", 1)

	s := newTestScheduler(store)
	s.RunCycle()

	if _, err := store.GetLoadByTrip("TRIP-1"); err == nil {
		t.Error("unprofitable load was assigned")
	}
	stats := s.Stats()
	if stats.TotalMatches != 0 || stats.TotalAssignments != 0 {
		t.Errorf("stats = %d matches / %d assignments, want 0 / 0",
			stats.TotalMatches, stats.TotalAssignments)
	}
}

func TestRunCycleNeverCommitsDegradedResults(t *testing.T) {
	store := storage.NewMemoryStore()
	addDeadheadingTrip(t, store, "TRIP-1")
	// Malformed pickup forces the pipeline into degraded mode, where no
	// profitability data exists to justify a commit.
	if _, err := store.CreateLoad(&models.Load{
		LoadID:       "L-BAD",
		Pickup:       models.Coordinate{Lat: 95.0, Lng: 77.0},
		Dropoff:      pitampura,
		PriceOffered: 5000,
	}); err != nil {
		t.Fatalf("CreateLoad: %v", err)
	}

	s := newTestScheduler(store)
	s.RunCycle()

	if _, err := store.GetLoadByTrip("TRIP-1"); err == nil {
		t.Error("degraded-mode result was committed")
	}
}

// conflictingStore fails the first AssignLoad with ErrConflict to model a
// concurrent writer taking the top candidate mid-cycle.
type conflictingStore struct {
	storage.Store
	failed bool
}

func (c *conflictingStore) AssignLoad(loadID, tripID, driverID string) error {
	if !c.failed {
		c.failed = true
		return storage.ErrConflict
	}
	return c.Store.AssignLoad(loadID, tripID, driverID)
}

func TestRunCycleRetriesNextCandidateOnConflict(t *testing.T) {
	mem := storage.NewMemoryStore()
	addDeadheadingTrip(t, mem, "TRIP-1")
	addLoad(t, mem, "L-BEST", 5000)
	addLoad(t, mem, "L-SECOND", 4000)

	store := &conflictingStore{Store: mem}
	s := newTestScheduler(store)
	s.RunCycle()

	l, err := mem.GetLoadByTrip("TRIP-1")
	if err != nil {
		t.Fatalf("trip has no load after conflict retry: %v", err)
	}
	if l.LoadID != "L-SECOND" {
		t.Errorf("assigned %s, want L-SECOND after conflict on L-BEST", l.LoadID)
	}
}

func TestCancelledAllocationMatchableNextCycle(t *testing.T) {
	store := storage.NewMemoryStore()
	if _, err := store.CreateTruck(&models.Truck{TruckID: "TRK-1", OwnerID: "OWN-1", LicensePlate: "DL05X", CapacityKg: 9000}); err != nil {
		t.Fatalf("CreateTruck: %v", err)
	}
	addLoad(t, store, "L-1", 5000)

	allocation, err := store.CreateAllocation("TRK-1", "L-1", "OWN-1", "DRV-1")
	if err != nil {
		t.Fatalf("CreateAllocation: %v", err)
	}

	addDeadheadingTrip(t, store, "TRIP-1")
	s := newTestScheduler(store)

	// While the allocation holds the load, the scheduler finds nothing.
	s.RunCycle()
	if _, err := store.GetLoadByTrip("TRIP-1"); err == nil {
		t.Fatal("allocated load was scheduled")
	}

	if _, err := store.CancelAllocation(allocation.AllocationID); err != nil {
		t.Fatalf("CancelAllocation: %v", err)
	}

	s.RunCycle()
	if _, err := store.GetLoadByTrip("TRIP-1"); err != nil {
		t.Errorf("released load not scheduled on next cycle: %v", err)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	store := storage.NewMemoryStore()
	s := newTestScheduler(store)

	if s.Running() {
		t.Fatal("scheduler running before Start")
	}
	s.Start()
	if !s.Running() {
		t.Fatal("scheduler not running after Start")
	}
	// Second Start is a no-op.
	s.Start()

	s.Stop()
	if s.Running() {
		t.Fatal("scheduler still running after Stop")
	}
	// Second Stop is a no-op.
	s.Stop()

	if s.Stats().Running {
		t.Error("stats report running after Stop")
	}
}

func TestForceRunWorksWhileStopped(t *testing.T) {
	store := storage.NewMemoryStore()
	addDeadheadingTrip(t, store, "TRIP-1")
	addLoad(t, store, "L-1", 5000)

	s := newTestScheduler(store)
	s.ForceRun()

	if _, err := store.GetLoadByTrip("TRIP-1"); err != nil {
		t.Errorf("ForceRun did not assign: %v", err)
	}
	if s.Stats().TotalRuns != 1 {
		t.Errorf("TotalRuns = %d, want 1", s.Stats().TotalRuns)
	}
}
