package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"EtfRadar/internal/market"
	"EtfRadar/internal/notifier"
	"EtfRadar/internal/recorder"
	"EtfRadar/internal/watchlist"
)

// Scheduler runs the periodic watchlist refresh: build rows, record the
// batch, and optionally push a Telegram digest.
type Scheduler struct {
	Cron      *cron.Cron
	Watchlist *watchlist.Manager
	Builder   *market.Builder
	Recorder  recorder.Recorder
	Notifier  *notifier.TelegramNotifier // nil disables digests
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, wm *watchlist.Manager, b *market.Builder, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Watchlist: wm,
		Builder:   b,
		Recorder:  rec,
		Notifier:  tn,
		Ctx:       ctx,
	}
}

// Register wires the refresh task onto the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	items := s.Watchlist.Items()
	if len(items) == 0 {
		log.Println("[WARN] refresh skipped: watchlist is empty")
		return
	}
	log.Printf("[INFO] refreshing %d tickers", len(items))

	batch := s.Builder.Refresh(s.Ctx, items)
	log.Printf("[INFO] refresh %s done: %d rows, %d errors", batch.BatchID, len(batch.Rows), len(batch.Errors))

	if err := s.Recorder.RecordBatch(batch); err != nil {
		log.Printf("[ERROR] record batch: %v", err)
	}

	if s.Notifier != nil {
		digest := notifier.FormatDigest(batch)
		if err := s.Notifier.SendWithRetry(s.Ctx, digest, 3); err != nil {
			log.Printf("[ERROR] send digest: %v", err)
		}
	}
}
