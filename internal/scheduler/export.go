// Package scheduler runs the markdown export on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/hadith/internal/database/meta"
	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/exporters"
)

// ErrExportInProgress is returned by RunNow while another export runs.
var ErrExportInProgress = errors.New("export already in progress")

// Exporter is the export job run on every tick.
type Exporter interface {
	ExportAll() (exporters.ExportResult, error)
}

// StatusStore records the outcome of each run. *meta.Repository satisfies it.
type StatusStore interface {
	Set(key, value string) error
}

var (
	_ Exporter    = (*exporters.DatabaseMarkdownExporter)(nil)
	_ StatusStore = (*meta.Repository)(nil)
)

// ExportScheduler manages periodic markdown exports.
type ExportScheduler struct {
	exporter Exporter
	status   StatusStore
	schedule string

	cron        *cron.Cron
	entryID     cron.EntryID
	mu          sync.RWMutex
	isRunning   bool
	isExporting bool
	cancelFunc  context.CancelFunc
}

// NewExportScheduler creates a new scheduler instance. status may be nil.
func NewExportScheduler(exporter Exporter, status StatusStore, schedule string) *ExportScheduler {
	return &ExportScheduler{
		exporter: exporter,
		status:   status,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. Cancelling ctx stops it.
func (s *ExportScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(); err != nil && !errors.Is(err, ErrExportInProgress) {
			log.Printf("Export scheduler: run failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunAfter(s.schedule, time.Now())
	log.Printf("Export scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule, GetCronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running export to finish and stops the scheduler.
func (s *ExportScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.cron.Remove(s.entryID)
	s.mu.Unlock()

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	if cancel != nil {
		cancel()
	}
	log.Printf("Export scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *ExportScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// IsExporting returns whether an export is running right now
func (s *ExportScheduler) IsExporting() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isExporting
}

// NextRun returns when the next export will occur, or nil when stopped.
func (s *ExportScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// RunNow performs one export synchronously and records its outcome.
func (s *ExportScheduler) RunNow() (exporters.ExportResult, error) {
	s.mu.Lock()
	if s.isExporting {
		s.mu.Unlock()
		log.Printf("Export: skipped (already exporting)")
		return exporters.ExportResult{}, ErrExportInProgress
	}
	s.isExporting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isExporting = false
		s.mu.Unlock()
	}()

	startTime := time.Now()
	result, err := s.exporter.ExportAll()
	if err != nil {
		errMsg := fmt.Sprintf("Export failed: %v", err)
		log.Printf("Export: %s", errMsg)
		s.recordStatus(entities.ExportStatusFailed, errMsg, startTime)
		return result, err
	}

	duration := time.Since(startTime)
	successMsg := fmt.Sprintf("Exported %d collections, %d hadith in %v",
		result.CollectionsProcessed, result.HadithProcessed, duration.Round(time.Millisecond))
	if result.CollectionsFailed > 0 {
		successMsg += fmt.Sprintf(" (%d collections failed)", result.CollectionsFailed)
	}
	log.Printf("Export: %s", successMsg)
	s.recordStatus(entities.ExportStatusSuccess, successMsg, startTime)
	return result, nil
}

func (s *ExportScheduler) recordStatus(status, message string, at time.Time) {
	if s.status == nil {
		return
	}
	values := map[string]string{
		entities.MetaKeyLastExportStatus:  status,
		entities.MetaKeyLastExportMessage: message,
		entities.MetaKeyLastExportAt:      at.UTC().Format(time.RFC3339),
	}
	for key, value := range values {
		if err := s.status.Set(key, value); err != nil {
			log.Printf("Export: failed to record %s: %v", key, err)
		}
	}
}
