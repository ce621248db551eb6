package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"go-notification-relay/internal/application/facade"
	"go-notification-relay/internal/infrastructure/config"
	"go-notification-relay/internal/infrastructure/hub"
	"go-notification-relay/internal/infrastructure/logger"
	"go-notification-relay/internal/infrastructure/metrics"
	"go-notification-relay/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.NewLogrusLogger(logger.NewDefaultConfig())
		fallback.Errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	lCfg, levelErr := logger.NewConfig(cfg)
	log := logger.NewLogrusLogger(lCfg)
	if levelErr != nil {
		log.Warnf("%v, using %s", levelErr, lCfg.Level)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(WithSignal(context.Background()), cfg, log); err != nil {
		log.Errorf("failed to run application: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	registry := metrics.NewRegistry()
	hubInstance := hub.New(log, hub.Options{
		DeliveryTimeout:     cfg.DeliveryTimeout,
		DeliveryConcurrency: cfg.DeliveryConcurrency,
		QueueSize:           cfg.BroadcastQueueSize,
		Metrics:             metrics.NewHubMetrics(registry),
	})

	// The hub must be running before any connection or trigger is served.
	if err := hubInstance.Start(context.Background()); err != nil {
		return err
	}

	notifications := facade.NewNotificationApplicationService(hubInstance, clockwork.NewRealClock(), log)
	router := InitRouter(routerDeps{
		cfg:           cfg,
		log:           log,
		hub:           hubInstance,
		notifications: notifications,
		registry:      registry,
	})

	httpSrv := server.NewHTTPServer(router, server.Options{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	})

	log.Infof("notification relay listening on %s", cfg.HTTPAddr)
	return newApplication(log, httpSrv, hubInstance, cfg).Run(ctx)
}

type Application struct {
	logger  logger.Logger
	httpSrv server.Server
	hub     *hub.Hub
	cfg     *config.Config
}

func newApplication(
	logger logger.Logger,
	httpSrv server.Server,
	hubInstance *hub.Hub,
	cfg *config.Config,
) *Application {
	return &Application{
		logger:  logger.WithField("app", "relay"),
		httpSrv: httpSrv,
		hub:     hubInstance,
		cfg:     cfg,
	}
}

// Run serves until ctx is cancelled, then stops the hub (closing every
// client) and shuts the HTTP server down within the configured timeout.
func (app *Application) Run(ctx context.Context) error {
	eg, gctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return app.httpSrv.Start(gctx)
	})

	eg.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout)
		defer cancel()

		if err := app.hub.Stop(shutdownCtx); err != nil {
			app.logger.Errorf("failed to stop hub: %v", err)
		}

		return app.httpSrv.Stop(shutdownCtx)
	})

	return eg.Wait()
}

func WithSignal(pctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(pctx)

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

		<-sigc

		cancel()
	}()

	return ctx
}
