package mvcore

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/srcfoundry/mvcore/component"
	"github.com/srcfoundry/mvcore/config"
	"github.com/srcfoundry/mvcore/mvc"
	"github.com/srcfoundry/mvcore/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// App wires configuration, logging, the component registry, the router and the HTTP server.
type App struct {
	Config config.Config
	// Registry defaults to component.DefaultRegistry.
	Registry *component.Registry
	// Resolvers are appended after the built-in argument resolvers.
	Resolvers []mvc.ArgumentResolver

	logger  *zap.Logger
	metrics *prometheus.Registry
	router  *mvc.Router
	server  *server.HttpServer
}

// New returns an App with a logger built from cfg.LogLevel.
func New(cfg config.Config) (*App, error) {
	logger, err := component.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	component.SetDefaultLogger(logger)
	return &App{Config: cfg, logger: logger}, nil
}

// Init builds the route table and the HTTP server. A failure here should abort startup.
func (a *App) Init(ctx context.Context) error {
	if a.logger == nil {
		a.logger = component.LoggerFromContext(ctx)
	}
	if a.Registry == nil {
		a.Registry = component.DefaultRegistry()
	}
	ctx = component.ContextWithLogger(ctx, a.logger)

	a.router = mvc.NewRouter(mvc.Options{
		Discoverer:     a.Registry,
		BeanFactory:    component.NewFactory(a.Registry),
		Resolvers:      mvc.DefaultArgumentResolvers().With(a.Resolvers...),
		ValidateOnInit: a.Config.ValidateOnInit,
		Logger:         a.logger,
	})
	if err := a.router.Initialize(ctx, a.Config.BasePackages...); err != nil {
		return err
	}

	a.metrics = prometheus.NewRegistry()
	metrics, err := server.NewMetrics(a.metrics)
	if err != nil {
		return err
	}
	a.server = server.NewHttpServer(ctx, a.Config, server.NewDispatcher(a.router, metrics), a.metrics)
	return nil
}

func (a *App) Router() *mvc.Router {
	return a.router
}

// Handler returns the root HTTP handler; Init must have succeeded.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Run serves until ctx is done or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	if a.server == nil {
		return errors.New("app not initialized")
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Start(component.ContextWithLogger(ctx, a.logger))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down", zap.String("addr", a.server.Addr()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
