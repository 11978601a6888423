// Package scheduler keeps the in-memory cube list and code sets fresh with
// scheduled refreshes from the StatCan Web Data Service.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/shinysc/statcan-tables-api/interfaces"
	"github.com/shinysc/statcan-tables-api/logging"
	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// refreshTimeout bounds one full refresh, cube list and code sets included.
const refreshTimeout = 5 * time.Minute

// RefreshScheduler refreshes the cube list twice a day and watches for
// staleness in between.
type RefreshScheduler struct {
	dataStore interfaces.DataStore
	client    interfaces.MetadataClient
	scheduler *gocron.Scheduler

	stopMonitor context.CancelFunc
}

// Compile-time check
var _ interfaces.Scheduler = (*RefreshScheduler)(nil)

// NewRefreshScheduler creates a new scheduler with injected dependencies
func NewRefreshScheduler(dataStore interfaces.DataStore, client interfaces.MetadataClient) *RefreshScheduler {
	return &RefreshScheduler{
		dataStore: dataStore,
		client:    client,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start performs the initial cube list load and schedules the twice-daily
// refreshes plus the hourly staleness watchdog.
func (s *RefreshScheduler) Start() error {
	if err := s.refresh(); err != nil {
		logging.Error("Failed to perform initial cube list load", "error", err)
		return fmt.Errorf("initial cube list load failed: %w", err)
	}

	// The WDS publishes new releases at 08:30 Eastern; refreshing at 06:00
	// and 18:00 local keeps the list at most half a day behind.
	_, err := s.scheduler.Every(1).Days().At("06:00;18:00").Do(func() {
		if err := s.refresh(); err != nil {
			logging.Error("Failed to refresh cube list", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule refreshes", "error", err)
		return fmt.Errorf("failed to schedule refreshes: %w", err)
	}

	s.scheduler.StartAsync()

	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler and the staleness watchdog
func (s *RefreshScheduler) Stop() {
	s.scheduler.Stop()
	if s.stopMonitor != nil {
		s.stopMonitor()
	}
}

// refresh downloads the full cube list and code sets and swaps them in
// atomically. A failed code-set fetch keeps the previous code sets.
func (s *RefreshScheduler) refresh() error {
	if !s.dataStore.BeginUpdate() {
		logging.Info("Refresh already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting cube list refresh")
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	cubes, err := s.client.AllCubes(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch cube list: %w", err)
	}
	if len(cubes) == 0 {
		return fmt.Errorf("cube list refresh returned no cubes")
	}

	cubesMap := make(map[int]entities.Cube, len(cubes))
	for i := range cubes {
		cubesMap[cubes[i].ProductID] = cubes[i]
	}

	codeSets, err := s.client.CodeSets(ctx)
	if err != nil {
		logging.Warn("Failed to fetch code sets, keeping previous ones", "error", err)
		codeSets = nil
	}

	s.dataStore.UpdateData(cubes, cubesMap, codeSets)

	elapsed := time.Since(start)
	logging.Info("Cube list refresh completed", "duration", elapsed.String(), "cube_count", len(cubes))

	return nil
}

// startHealthMonitoring warns when the cube list misses a refresh cycle.
func (s *RefreshScheduler) startHealthMonitoring() {
	ctx, cancel := context.WithCancel(context.Background())
	s.stopMonitor = cancel

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Cube list hasn't been refreshed in over 25 hours")
				}
			}
		}
	}()
}
