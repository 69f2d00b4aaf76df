package simulator

import (
	"context"
	"log/slog"
	"time"

	"github.com/midasbot/midas/midas/utils"
)

// Scheduler hangs the simulation loops off the process manager. Every
// loop runs once at startup, then on its interval, and stops when the
// manager shuts down.
type Scheduler struct {
	sim       *Simulator
	pm        *utils.ProcessManager
	archive   func(ctx context.Context) error
	elections func(ctx context.Context) error
}

func NewScheduler(sim *Simulator, pm *utils.ProcessManager) *Scheduler {
	return &Scheduler{sim: sim, pm: pm}
}

// WithArchive adds the daily cold-storage export to the schedule.
func (s *Scheduler) WithArchive(fn func(ctx context.Context) error) *Scheduler {
	s.archive = fn
	return s
}

// WithElections adds the expired-race finalization sweep to the schedule.
func (s *Scheduler) WithElections(fn func(ctx context.Context) error) *Scheduler {
	s.elections = fn
	return s
}

// Start registers all simulation loops.
func (s *Scheduler) Start() {
	s.loop("economy-tick", "Hourly macro tick across all tenants", utils.EconomyTickInterval, s.sim.TickAll)
	s.loop("loan-sweep", "Settles overdue loans", utils.LoanSweepInterval, s.sim.SweepLoans)
	s.loop("investment-sweep", "Revalues stale investment holdings", utils.InvestmentSweepInterval, s.sim.SweepInvestments)
	s.loop("event-sweep", "Rolls for new macro events", utils.EventSweepInterval, s.sim.SweepEvents)
	if s.archive != nil {
		s.loop("archive", "Exports aged history rows to cold storage", utils.ArchiveInterval, s.archive)
	}
	if s.elections != nil {
		s.loop("election-sweep", "Closes expired elections and records winners", utils.ElectionSweepInterval, s.elections)
	}
}

func (s *Scheduler) loop(name, description string, interval time.Duration, fn func(context.Context) error) {
	s.pm.StartProcess(name, description, func(ctx context.Context) {
		run := func() {
			if err := fn(ctx); err != nil {
				slog.Error("Scheduled job failed",
					slog.String("type", "sim"),
					slog.String("job", name),
					slog.String("error", err.Error()))
			}
		}
		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				slog.Debug("scheduler heartbeat", slog.String("job", name))
				run()
			}
		}
	})
}
