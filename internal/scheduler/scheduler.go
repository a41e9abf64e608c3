// Package scheduler runs the periodic housekeeping jobs against the store.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

//go:generate mockgen -source=scheduler.go -destination=scheduler_mock.go -package=scheduler

// InvoiceSweeper flips sent invoices past their due date to overdue.
type InvoiceSweeper interface {
	MarkOverdueInvoices() (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	sweeper InvoiceSweeper
	logger  zerolog.Logger
}

func New(sweeper InvoiceSweeper, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start sweeps on every tick of spec, which uses the standard five-field cron
// syntax or descriptors such as "@hourly". An empty spec schedules nothing.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		s.logger.Debug().Msg("overdue sweep disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(spec, s.SweepOverdue); err != nil {
		return fmt.Errorf("scheduling overdue sweep %q: %w", spec, err)
	}

	s.cron.Start()

	s.logger.Info().Str("schedule", spec).Msg("scheduler started")

	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) SweepOverdue() {
	n, err := s.sweeper.MarkOverdueInvoices()
	if err != nil {
		s.logger.Error().Err(err).Msg("overdue sweep failed")
		return
	}

	if n > 0 {
		s.logger.Info().Int("count", n).Msg("invoices marked overdue")
	}
}
