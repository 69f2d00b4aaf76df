package midas

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/midasbot/midas/midas/database"
	"github.com/midasbot/midas/midas/database/repositories"
	"github.com/midasbot/midas/midas/economy/catalog"
	"github.com/midasbot/midas/midas/economy/engine"
	"github.com/midasbot/midas/midas/economy/simulator"
	ecoutils "github.com/midasbot/midas/midas/economy/utils"
	"github.com/midasbot/midas/midas/metrics"
	"github.com/midasbot/midas/midas/services"
	"github.com/midasbot/midas/midas/utils"
)

// App owns every long-lived component of the simulation: the database,
// the repositories, the player-facing services and the background
// scheduler. main wires it, starts it and tears it down.
type App struct {
	Cfg     Config
	Version string
	Commit  string

	DB        *database.DB
	Metrics   *metrics.Metrics
	Engine    *engine.Engine
	Processes *utils.ProcessManager

	PlayerRepository      repositories.PlayerRepository
	EconomyRepository     repositories.EconomyRepository
	TransactionRepository repositories.TransactionRepository
	LoanRepository        repositories.LoanRepository
	InvestmentRepository  repositories.InvestmentRepository
	CrimeRepository       repositories.CrimeRepository
	ElectionRepository    repositories.ElectionRepository
	SnapshotRepository    repositories.MarketSnapshotRepository

	Store services.Store

	Actions    *services.ActionService
	Bank       *services.BankService
	Credit     *services.CreditService
	Investing  *services.InvestingService
	Crime      *services.CrimeService
	Market     *services.MarketService
	Jobs       *services.JobService
	Welfare    *services.WelfareService
	Elections  *services.ElectionService
	Reports    *services.ReportService
	MarketData *services.MarketDataService
	Archive    *services.ArchiveService

	Simulator *simulator.Simulator
	Scheduler *simulator.Scheduler
}

func New(cfg Config, version string, commit string) *App {
	return &App{
		Cfg:       cfg,
		Version:   version,
		Commit:    commit,
		Metrics:   metrics.New(),
		Engine:    engine.New(catalog.NewDefault()),
		Processes: utils.NewProcessManager(),
	}
}

// SetupServices builds the repository, service and simulator graph on
// top of the connected database. Call it once a.DB is set.
func (a *App) SetupServices() error {
	bunDB := a.DB.BunDB()

	a.PlayerRepository = repositories.NewPlayerRepository(bunDB)
	a.EconomyRepository = repositories.NewEconomyRepository(bunDB)
	a.TransactionRepository = repositories.NewTransactionRepository(bunDB)
	a.LoanRepository = repositories.NewLoanRepository(bunDB)
	a.InvestmentRepository = repositories.NewInvestmentRepository(bunDB)
	a.CrimeRepository = repositories.NewCrimeRepository(bunDB)
	a.ElectionRepository = repositories.NewElectionRepository(bunDB)
	a.SnapshotRepository = repositories.NewMarketSnapshotRepository(bunDB)

	tm := ecoutils.NewTransactionManager(bunDB)
	a.Store = services.NewStore(
		a.EconomyRepository,
		a.PlayerRepository,
		a.TransactionRepository,
		a.LoanRepository,
		a.InvestmentRepository,
		a.CrimeRepository,
		a.ElectionRepository,
		a.SnapshotRepository,
		tm,
	)

	seed := a.Cfg.Economy.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	simStore := simulator.NewStore(
		a.EconomyRepository,
		a.PlayerRepository,
		a.LoanRepository,
		a.InvestmentRepository,
		a.TransactionRepository,
		a.SnapshotRepository,
		tm,
	)
	a.Simulator = simulator.New(simStore, a.Engine, a.Metrics, seed)

	a.Actions = services.NewActionService(a.Store, a.Engine, a.Metrics, seed)
	a.Bank = services.NewBankService(a.Store, a.Engine, a.Metrics)
	a.Credit = services.NewCreditService(a.Store, a.Engine, a.Metrics)
	a.Investing = services.NewInvestingService(a.Store, a.Engine, a.Metrics)
	a.Crime = services.NewCrimeService(a.Store, a.Engine, a.Metrics, seed)
	a.Market = services.NewMarketService(a.Store, a.Engine, a.Metrics)
	a.Jobs = services.NewJobService(a.Store, a.Engine, a.Metrics)
	a.Welfare = services.NewWelfareService(a.Store, a.Engine, a.Metrics)
	a.Elections = services.NewElectionService(a.Store, a.Engine, a.Metrics)
	a.Reports = services.NewReportService(a.Store, a.Engine)

	if a.Cfg.MarketData.Enabled {
		a.MarketData = services.NewMarketDataService(a.Metrics)
	}

	if a.Cfg.Archive.Enabled {
		client, err := services.NewArchiveClient(
			a.Cfg.Archive.Key,
			a.Cfg.Archive.Secret,
			a.Cfg.Archive.Region,
			a.Cfg.Archive.Endpoint,
		)
		if err != nil {
			return fmt.Errorf("failed to set up archive storage: %w", err)
		}
		a.Archive = services.NewArchiveService(
			a.TransactionRepository,
			a.SnapshotRepository,
			client,
			a.Cfg.Archive.Bucket,
			a.Metrics,
		)
	}

	a.Scheduler = simulator.NewScheduler(a.Simulator, a.Processes).
		WithElections(a.Elections.FinalizeExpired)
	if a.Archive != nil {
		a.Scheduler.WithArchive(a.Archive.Run)
	}

	return nil
}

// Bootstrap ensures every configured guild has an economy row, so the
// first tick covers them without waiting for player activity.
func (a *App) Bootstrap(ctx context.Context) error {
	now := time.Now()
	for _, guild := range a.Cfg.Economy.BootstrapGuilds {
		template := simulator.EconomyTemplate(a.Engine.Catalog(), guild.String(), now)
		if _, err := a.EconomyRepository.GetOrCreate(ctx, template); err != nil {
			return fmt.Errorf("failed to bootstrap guild %s: %w", guild, err)
		}
	}
	return nil
}

// Shutdown stops the background loops. The database handle stays
// open; main owns its lifetime.
func (a *App) Shutdown(timeout time.Duration) {
	if err := a.Processes.Shutdown(timeout); err != nil {
		slog.Warn("Background processes did not stop in time",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}
}
