// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"corebank/internal/service"
)

// jobTimeout bounds each sweep run.
const jobTimeout = 30 * time.Second

// Scheduler runs the periodic card-activation sweep. The sweep is an
// optimization over the lazy read-triggered transition; both produce the same
// observable status.
type Scheduler struct {
	cron     *cron.Cron
	cards    service.CardService
	logger   *slog.Logger
	schedule string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cards service.CardService, logger *slog.Logger, schedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:     c,
		cards:    cards,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.activateDueCards); err != nil {
		s.logger.Error("failed to schedule card activation sweep", "error", err)
		return
	}
	s.logger.Info("scheduled card activation sweep", "schedule", s.schedule)
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) activateDueCards() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	activated, err := s.cards.ActivateDueCards(ctx)
	if err != nil {
		s.logger.Error("card activation sweep failed", "error", err)
		return
	}
	if activated > 0 {
		s.logger.Info("card activation sweep completed", "activated", activated)
	}
}
