package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/domain/cart"
	"github.com/xenking/otamanga-storefront/internal/handler"
	"github.com/xenking/otamanga-storefront/pkg/health"
	"github.com/xenking/otamanga-storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the storefront.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.BackendURL),
	)

	client, err := apiclient.New(
		apiclient.WithBaseURL(cfg.BackendURL),
		apiclient.WithLogger(lg.Named("apiclient")),
		apiclient.WithInstrumentation(
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	)
	if err != nil {
		return errors.Wrap(err, "create api client")
	}

	sessions, err := newSessions(lg, m.MeterProvider(), cfg.Cart)
	if err != nil {
		return errors.Wrap(err, "create sessions")
	}
	evicted := sessions.StartEviction(ctx)

	healthSvc := health.New()
	healthSvc.Add(health.Readiness, "backend", 5*time.Second, health.PingCheck(client))
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: newHandler(zctx.From(ctx), client, sessions, healthSvc, cfg.Cart,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		<-evicted
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newHandler builds the routed, instrumented server handler.
func newHandler(
	lg *zap.Logger,
	client *apiclient.Client,
	sessions *cart.Sessions,
	healthSvc *health.Service,
	cfg CartConfig,
	otelOpts ...otelhttp.Option,
) http.Handler {
	h := handler.New(
		handler.Config{SecureCookie: cfg.SecureCookie, CookieTTL: cfg.CookieTTL},
		client.Mangas,
		client.Categories,
		client.Metrics,
		client.Recommendations,
		sessions,
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)

	return httpmiddleware.Wrap(mux,
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.Instrument("storefront", otelOpts...),
		httpmiddleware.LogRequests(),
	)
}

// newSessions creates the cart registry. Every new cart is followed by a
// subscriber that counts its changes; the number of live carts is reported
// as a gauge.
func newSessions(lg *zap.Logger, mp metric.MeterProvider, cfg CartConfig) (*cart.Sessions, error) {
	meter := mp.Meter("github.com/xenking/otamanga-storefront/cart")

	changes, err := meter.Int64Counter("storefront.cart.changes",
		metric.WithDescription("Cart state changes"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "changes counter")
	}

	sessions := cart.NewSessions(cart.SessionsConfig{
		IdleTimeout: cfg.IdleTimeout,
		OnCreate: func(id string, c *cart.Cart) {
			lg.Debug("Cart created", zap.String("session", id))
			c.Subscribe(func(v cart.View) {
				changes.Add(context.Background(), 1)
				lg.Debug("Cart changed",
					zap.String("session", id),
					zap.Int("items", len(v.Items)),
					zap.Bool("open", v.IsOpen),
					zap.Stringer("total", v.Total),
				)
			})
		},
	})

	if _, err := meter.Int64ObservableGauge("storefront.cart.sessions",
		metric.WithDescription("Live browsing sessions"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(sessions.Len()))
			return nil
		}),
	); err != nil {
		return nil, errors.Wrap(err, "sessions gauge")
	}
	return sessions, nil
}
