// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "corebank/internal/api"
	"corebank/internal/api/handler"
	"corebank/internal/config"
	"corebank/internal/repository"
	"corebank/internal/repository/postgres"
	"corebank/internal/scheduler"
	"corebank/internal/service"
	"corebank/internal/util"
	"corebank/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	AccountRepository     repository.AccountRepository
	TransactionRepository repository.TransactionRepository
	CardRepository        repository.CardRepository

	// Services
	AuthService    service.AuthService
	AccountService service.AccountService
	LedgerService  service.LedgerService
	BankService    service.BankService
	CardService    service.CardService

	// Background jobs
	Scheduler *scheduler.Scheduler

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	database, err := db.NewPostgresDB(cfg.DB())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.Migrate(app.DB, app.Logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	app.UserRepository = postgres.NewUserRepository()
	app.AccountRepository = postgres.NewAccountRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.CardRepository = postgres.NewCardRepository()
	app.Logger.Info("Repositories initialized.")

	app.AccountService = service.NewAccountService(
		app.DB, app.DB, app.AccountRepository,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.LedgerService = service.NewLedgerService(app.DB, app.TransactionRepository)
	app.BankService = service.NewBankService(
		app.DB, app.AccountRepository, app.LedgerService,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.CardService = service.NewCardService(
		app.DB, app.DB, app.CardRepository,
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.AuthService = service.NewAuthService(
		app.DB, app.DB, app.UserRepository, app.AccountService,
		cfg.JWTSecret, cfg.TokenTTL(),
		db.BeginTx, db.CommitTx, db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	app.Scheduler = scheduler.NewScheduler(app.CardService, app.Logger, cfg.CardSweepSchedule)
	app.Scheduler.Start()

	authHandler := handler.NewAuthHandler(app.AuthService, app.Logger)
	bankHandler := handler.NewBankHandler(app.AccountService, app.BankService, app.LedgerService, app.Logger)
	cardHandler := handler.NewCardHandler(app.CardService, app.Logger)
	app.HTTPHandler = router.NewRouter(authHandler, bankHandler, cardHandler, cfg.JWTSecret, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.Scheduler != nil {
		select {
		case <-app.Scheduler.Stop().Done():
		case <-ctx.Done():
		}
		app.Logger.Info("Scheduler stopped.")
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
