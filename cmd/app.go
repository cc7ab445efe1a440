package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/interior-ledger/internal"
	"github.com/frahmantamala/interior-ledger/internal/auth"
	"github.com/frahmantamala/interior-ledger/internal/broker"
	"github.com/frahmantamala/interior-ledger/internal/category"
	categoryPostgres "github.com/frahmantamala/interior-ledger/internal/category/postgres"
	"github.com/frahmantamala/interior-ledger/internal/core/events"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	entryPostgres "github.com/frahmantamala/interior-ledger/internal/entry/postgres"
	"github.com/frahmantamala/interior-ledger/internal/estimate"
	estimatePostgres "github.com/frahmantamala/interior-ledger/internal/estimate/postgres"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/interior-ledger/internal/ledger/postgres"
	"github.com/frahmantamala/interior-ledger/internal/payment"
	paymentPostgres "github.com/frahmantamala/interior-ledger/internal/payment/postgres"
	"github.com/frahmantamala/interior-ledger/internal/project"
	projectPostgres "github.com/frahmantamala/interior-ledger/internal/project/postgres"
	"github.com/frahmantamala/interior-ledger/internal/user"
	userPostgres "github.com/frahmantamala/interior-ledger/internal/user/postgres"
	"github.com/frahmantamala/interior-ledger/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App holds the wired services shared by the server and the CLI commands.
type App struct {
	Config *internal.Config
	Logger *slog.Logger
	SQL    *sqlx.DB
	DB     *gorm.DB
	Bus    *events.EventBus
	Broker *broker.Client

	Users      *user.Service
	Auth       *auth.Service
	Tokens     *auth.JWTTokenGenerator
	Categories *category.Service
	Projects   *project.Service
	Estimates  *estimate.Service
	Entries    *entry.Service
	Ledger     *ledger.Service
	Payments   *payment.Service
}

func newApp(cfg *internal.Config) (*App, error) {
	lg := logger.LoggerWrapper()

	sqlDB, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// GORM shares the sqlx pool so both see the same connections.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB.DB}), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	app := &App{
		Config: cfg,
		Logger: lg,
		SQL:    sqlDB,
		DB:     gormDB,
		Bus:    events.NewEventBus(lg),
	}
	app.Bus.Subscribe(events.AllEvents, events.AuditLog(lg))

	if cfg.Broker.Enabled {
		client, err := broker.NewClient(cfg.Broker.URL, cfg.Broker.Exchange, cfg.Broker.Queue, cfg.Broker.RoutingKey, lg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect broker: %w", err)
		}
		app.Broker = client
		app.Bus.Subscribe(events.AllEvents, broker.Forwarder(client))
	}

	app.Users = user.NewService(userPostgres.NewUserRepository(sqlDB), cfg.Security.BCryptCost, lg)
	app.Tokens = auth.NewJWTTokenGenerator(cfg.Security)
	app.Auth = auth.NewService(app.Users, app.Tokens, lg)
	app.Categories = category.NewService(categoryPostgres.NewCategoryRepository(gormDB), nil, lg)
	projectRepo := projectPostgres.NewProjectRepository(gormDB)
	app.Estimates = estimate.NewService(estimatePostgres.NewEstimateRepository(gormDB), projectRepo, lg)
	app.Projects = project.NewService(projectRepo, app.Bus, lg, project.WithEstimates(app.Estimates))
	app.Entries = entry.NewService(entryPostgres.NewEntryRepository(gormDB), app.Projects, app.Categories, app.Bus, lg)
	app.Ledger = ledger.NewService(ledgerPostgres.NewLedgerStore(gormDB), app.Categories, app.Bus, lg,
		ledger.WithCurrency(cfg.Ledger.Currency),
		ledger.WithRecentLimit(cfg.Ledger.RecentLimit()),
	)
	app.Payments = payment.NewService(paymentPostgres.NewBillRepository(gormDB), app.Projects, app.Ledger, app.Bus, lg)

	return app, nil
}

// Close waits for in-flight event handlers before releasing connections.
func (a *App) Close() {
	a.Bus.Wait()
	if a.Broker != nil {
		if err := a.Broker.Close(); err != nil {
			a.Logger.Error("broker close error", "error", err)
		}
	}
	if err := a.SQL.Close(); err != nil {
		a.Logger.Error("database close error", "error", err)
	}
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	db, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := internal.WithTimeout(context.Background(), 0)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
