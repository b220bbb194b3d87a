// Package app wires the dashboard client together: token store, API client,
// session controller, navigator and, for the web shell, the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apiHandler "github.com/fastygo/dashboard/api/handler"
	"github.com/fastygo/dashboard/domain"
	"github.com/fastygo/dashboard/internal/config"
	"github.com/fastygo/dashboard/internal/infrastructure/monitor"
	"github.com/fastygo/dashboard/internal/middleware"
	redisInfra "github.com/fastygo/dashboard/internal/infrastructure/redis"
	"github.com/fastygo/dashboard/internal/navigation"
	appRouter "github.com/fastygo/dashboard/internal/router"
	"github.com/fastygo/dashboard/internal/services/lifecycle"
	"github.com/fastygo/dashboard/internal/tokenstore"
	"github.com/fastygo/dashboard/pkg/apiclient"
	"github.com/fastygo/dashboard/pkg/httpcontext"
	"github.com/fastygo/dashboard/repository"
	"github.com/fastygo/dashboard/repository/boltdb"
	"github.com/fastygo/dashboard/repository/file"
	"github.com/fastygo/dashboard/repository/memory"
	redisRepo "github.com/fastygo/dashboard/repository/redis"
	"github.com/fastygo/dashboard/usecase/session"
)

// App holds the wired components of one client process.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Lifecycle  *lifecycle.Manager
	Tokens     repository.TokenRepository
	Store      *tokenstore.Store
	Authorizer *apiclient.Authorizer
	API        *apiclient.Client
	Session    *session.Controller
	Navigator  *navigation.Navigator
	Monitor    *monitor.Monitor
}

// New builds the client and restores the persisted session.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager := lifecycle.New(cfg.Context.ShutdownTimeout, logger)

	tokens, err := OpenTokenRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := tokenstore.New(tokens, cfg.Token.Timeout, logger.Named("tokenstore"))
	manager.RegisterCloser("token_store", store)

	authorizer := apiclient.NewAuthorizer(cfg.API.AuthScheme)
	client := apiclient.New(apiclient.Config{
		BaseURL:   cfg.API.BaseURL,
		LoginPath: cfg.API.LoginPath,
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.AppName,
	}, authorizer, logger.Named("api"))

	controller := session.New(store, client, authorizer, logger.Named("session"))
	nav := navigation.NewNavigator(domain.DefaultRoutes(), navigation.NewGuard(controller, logger.Named("guard")), logger.Named("navigator"))
	controller.BindNavigator(nav)
	controller.Initialize()

	mon := monitor.New(client, tokens, controller, cfg.Health.Interval, logger.Named("monitor"))

	logger.Debug("client ready",
		zap.String("api", client.BaseURL()),
		zap.String("token_store", cfg.Token.Store),
		zap.Bool("authenticated", controller.IsAuthenticated()))

	return &App{
		Config:     cfg,
		Logger:     logger,
		Lifecycle:  manager,
		Tokens:     tokens,
		Store:      store,
		Authorizer: authorizer,
		API:        client,
		Session:    controller,
		Navigator:  nav,
		Monitor:    mon,
	}, nil
}

// OpenTokenRepository opens the backend selected by TOKEN_STORE.
func OpenTokenRepository(ctx context.Context, cfg *config.Config) (repository.TokenRepository, error) {
	switch cfg.Token.Store {
	case config.StoreBolt:
		repo, err := boltdb.Open(cfg.Token.BoltPath, cfg.Token.Key)
		if err != nil {
			return nil, fmt.Errorf("open bolt token store: %w", err)
		}
		return repo, nil
	case config.StoreFile:
		repo, err := file.NewTokenRepository(cfg.Token.FilePath)
		if err != nil {
			return nil, fmt.Errorf("open file token store: %w", err)
		}
		return repo, nil
	case config.StoreRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("open redis token store: %w", err)
		}
		return redisRepo.NewTokenRepository(client, cfg.Redis.Prefix, cfg.Token.Key), nil
	case config.StoreMemory:
		return memory.NewTokenRepository(), nil
	default:
		return nil, fmt.Errorf("unknown token store %q", cfg.Token.Store)
	}
}

// Router builds the web shell routes.
func (a *App) Router() *router.Router {
	adapter := httpcontext.NewAdapter(a.Config.Context.RequestTimeout)
	return appRouter.New(appRouter.Handlers{
		Shell:   apiHandler.NewShellHandler(a.Session, a.Navigator, a.API, a.Monitor, adapter, a.Logger.Named("shell")),
		Session: apiHandler.NewSessionHandler(a.Session, a.Navigator, adapter, a.Logger.Named("shell")),
		Health:  apiHandler.NewHealthHandler(a.Monitor, adapter, a.Logger.Named("shell")),
	})
}

// Serve runs the web shell on the configured address until ctx is done.
func (a *App) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Address())
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.Address(), err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener runs the web shell and the health monitor on ln until ctx is
// done or the server fails.
func (a *App) ServeListener(ctx context.Context, ln net.Listener) error {
	server := &fasthttp.Server{
		Handler:      middleware.AccessLog(a.Logger.Named("access"))(a.Router().Handler),
		ReadTimeout:  a.Config.Shell.ReadTimeout,
		WriteTimeout: a.Config.Shell.WriteTimeout,
		IdleTimeout:  a.Config.Shell.IdleTimeout,
		Name:         a.Config.AppName,
	}

	a.Monitor.Start(ctx)
	a.Lifecycle.Register("monitor", func(ctx context.Context) error {
		a.Monitor.Stop(ctx)
		return nil
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.Info("shell started", zap.String("address", ln.Addr().String()))
		return server.Serve(ln)
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.ShutdownWithContext(context.Background())
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info("shell stopped")
	return nil
}

// Close releases every resource acquired by New and Serve.
func (a *App) Close(ctx context.Context) error {
	return a.Lifecycle.Shutdown(ctx)
}
