package container

import (
	"context"
	"fmt"
	"time"

	"gouncertain/adapters/postgres"
	"gouncertain/adapters/rng"
	"gouncertain/adapters/stats/sprt"
	"gouncertain/app"
	"gouncertain/internal"
	"gouncertain/internal/config"
	"gouncertain/internal/migration"
	"gouncertain/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	RNG       ports.RNGPort
	Evaluator ports.HypothesisEvaluator

	// DB and Ledger are nil unless DATABASE_URL is set
	DB     *sqlx.DB
	Ledger ports.LedgerPort

	Decisions *app.DecisionService
}

// New wires the application from configuration
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	evaluator, err := sprt.NewEvaluator(cfg.SPRT.Evaluator())
	if err != nil {
		return nil, fmt.Errorf("failed to create evaluator: %w", err)
	}

	c := &Container{
		Config:    cfg,
		Logger:    internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
		RNG:       rng.NewAdapter(),
		Evaluator: evaluator,
	}
	c.Decisions = app.NewDecisionService(c.Evaluator, c.RNG, c.Logger, cfg.Sampling.MaxConcurrentDecisions)

	if cfg.Database.Enabled() {
		if err := c.openLedger(cfg.Database); err != nil {
			return nil, err
		}
	}

	c.Logger.Debug("container ready: reliability %.6g/%.6g, batch %d x %d, seed %d, ledger %t",
		cfg.SPRT.ReliabilityHigh, cfg.SPRT.ReliabilityLow, cfg.SPRT.BatchSize, cfg.SPRT.MaxBatches,
		cfg.Sampling.Seed, c.Ledger != nil)
	return c, nil
}

func (c *Container) openLedger(dbCfg config.DatabaseConfig) error {
	db, err := sqlx.Connect(dbCfg.Driver, dbCfg.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to %s ledger: %w", dbCfg.Driver, err)
	}
	if dbCfg.Driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate ledger: %w", err)
	}

	c.DB = db
	c.Ledger = postgres.NewDecisionLedger(db)
	c.Decisions.WithLedger(c.Ledger)
	return nil
}

// Close releases the ledger connection, if any
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}

// Load reads configuration, optionally seeded from envFile, and wires it
func Load(envFile string) (*Container, error) {
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg)
}
