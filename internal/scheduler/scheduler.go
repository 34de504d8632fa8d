// Package scheduler runs the periodic eviction of idle search sessions.
package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts idle sessions and reports how many were removed.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Scheduler wraps robfig/cron and fires the session sweep.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	now     func() time.Time
	spec    string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler that sweeps every intervalMinutes minutes.
func New(sweeper Sweeper, intervalMinutes int) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cron.DefaultLogger)),
		sweeper: sweeper,
		now:     time.Now,
		spec:    fmt.Sprintf("@every %dm", intervalMinutes),
	}
}

// Spec returns the cron expression the scheduler registers.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunSweep); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunSweep performs one eviction pass.
func (s *Scheduler) RunSweep() {
	removed := s.sweeper.Sweep(s.now())
	if removed > 0 {
		log.Printf("[scheduler] Evicted %d idle session(s)", removed)
	}
}
