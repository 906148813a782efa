package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/OwaisIslam/living-real/internal/data/db"
	types "github.com/OwaisIslam/living-real/internal/domain"
	"github.com/OwaisIslam/living-real/internal/http"
	"github.com/OwaisIslam/living-real/internal/observability"
	"github.com/OwaisIslam/living-real/internal/platform/ctxutil"
	"github.com/OwaisIslam/living-real/internal/platform/dbctx"
	"github.com/OwaisIslam/living-real/internal/platform/logger"
	"github.com/OwaisIslam/living-real/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Metrics  *observability.Metrics
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *http.Server

	database     *db.DatabaseService
	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// New opens the database and wires every layer. It does not migrate.
func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	database, err := db.NewDatabaseService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := database.DB()

	var shutdown func(context.Context) error
	if cfg.TracingEnabled {
		shutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Version:     cfg.Version,
		})
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics(true)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Metrics:      metrics,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Server:       server,
		database:     database,
		otelShutdown: shutdown,
	}, nil
}

func (a *App) Migrate() error {
	if a == nil || a.database == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.database.AutoMigrateAll()
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "address", a.Cfg.Address())
		return a.Server.Run(gctx, a.Cfg.Address(), a.Cfg.ShutdownTimeout)
	})
	if a.Cfg.RedisAddr != "" {
		g.Go(func() error {
			return a.WatchEvents(gctx, func(evt types.OccupancyEvent) {
				a.Log.Info("occupancy event", "type", evt.Type, "user_id", evt.UserID.String(), "property_id", evt.PropertyID.String())
			})
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// WatchEvents forwards occupancy events from the bus to onEvent until ctx is
// cancelled.
func (a *App) WatchEvents(ctx context.Context, onEvent func(types.OccupancyEvent)) error {
	if err := a.Clients.OccupancyBus.StartForwarder(ctx, onEvent); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// OwnerContext attaches the owner registered under email as the caller, for
// commands that run outside an HTTP request.
func (a *App) OwnerContext(ctx context.Context, email string) (context.Context, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("owner email required")
	}
	users, err := a.Repos.User.GetByEmails(dbctx.Context{Ctx: ctx}, []string{email})
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", email, err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("no user registered as %s", email)
	}
	u := users[0]
	if u.Role != types.RoleOwner {
		return nil, fmt.Errorf("%s is not an owner", email)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: u.ID, Role: u.Role}), nil
}

// CheckConsistency runs the occupancy consistency check as the given owner.
func (a *App) CheckConsistency(ctx context.Context, ownerEmail string) (*services.ConsistencyReport, error) {
	octx, err := a.OwnerContext(ctx, ownerEmail)
	if err != nil {
		return nil, err
	}
	return a.Services.Consistency.Check(octx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	a.Clients.Close()
	if a.database != nil {
		_ = a.database.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
