package internal

import (
	"context"
	"dashcfg/internal/controllers"
	"dashcfg/internal/models"
	"dashcfg/internal/providers"
	"dashcfg/internal/settings/interfaces"
	"dashcfg/internal/structures"
	"fmt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

type App struct {
	WebServer *http.Server
}

// NewHandler assembles the full HTTP stack: routes behind metrics, request
// logging and panic recovery, with health and metrics alongside, all gzipped.
func NewHandler(healthController *controllers.HealthController, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	// Inner mux: panel routes
	apiMux := http.NewServeMux()
	for _, route := range router.GetRoutes() {
		logger.Debugf(providers.TypeApp, "Route %s %s", route.Method, route.Url)
		apiMux.Handle(route.Url, route.Handler)
	}

	instrumentedAPI := providers.MetricsMiddleware(metrics, apiMux)

	// Outer mux: infrastructure + instrumented panel
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		mux.Handle("/metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return providers.CompressionMiddleware(
		providers.RecoverMiddleware(logger,
			providers.LoggingMiddleware(logger, mux)))
}

// seedSettings writes the defaults on first start so the kiosk page finds a file.
func seedSettings(store interfaces.StoreInterface, logger providers.Logger) {
	if store.Exists() {
		return
	}
	if err := store.Save(models.DefaultDocument()); err != nil {
		logger.Errorf(providers.TypeApp, "Cannot create default settings: %s", err)
		return
	}
	logger.Infof(providers.TypeApp, "Created default settings at %s", store.Path())
}

// writeTimeout leaves room for the slowest handler: the panel device checks (bounded
// together by one command timeout), an action or the Nightscout proxy, plus
// the page render around it.
func writeTimeout(conf *structures.Config) time.Duration {
	return max(conf.System.CommandTimeout, conf.Nightscout.ProxyTimeout) + 10*time.Second
}

func NewApp(healthController *controllers.HealthController, store interfaces.StoreInterface, conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) (*App, error) {
	defer logger.Close()
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	seedSettings(store, logger)

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      NewHandler(healthController, conf, logger, router, metrics),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: writeTimeout(conf),
			IdleTimeout:  60 * time.Second,
		},
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, fmt.Errorf("server error: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
