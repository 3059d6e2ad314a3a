package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps robfig/cron and manages the recurring feed sync.
type Scheduler struct {
	cron   *cron.Cron
	syncer *Syncer
	spec   string // cron spec, e.g. "@every 1h"
}

// NewScheduler creates a Scheduler firing on the given cron spec.
func NewScheduler(syncer *Syncer, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cron.DefaultLogger)),
		syncer: syncer,
		spec:   spec,
	}
}

// Start registers the job and starts the scheduler. Also runs one sync
// immediately so the offres table is populated without waiting for the first
// tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSync(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[ingest] Cron started with spec %s", s.spec)

	go s.runSync(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[ingest] Cron stopped")
}

func (s *Scheduler) runSync(ctx context.Context) {
	log.Println("[ingest] Sync cycle started")

	count, err := s.syncer.Run(ctx)
	if err != nil {
		log.Printf("[ingest] Sync error: %v", err)
		return
	}

	log.Printf("[ingest] Sync cycle complete: %d offer(s)", count)
}
