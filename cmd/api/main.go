package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/access"
	"github.com/sebkasanzew/comoi/internal/catalog"
	"github.com/sebkasanzew/comoi/internal/events"
	"github.com/sebkasanzew/comoi/internal/oidc"
	"github.com/sebkasanzew/comoi/internal/order"
	"github.com/sebkasanzew/comoi/internal/router"
	"github.com/sebkasanzew/comoi/internal/store"
	"github.com/sebkasanzew/comoi/internal/store/backend"
	"github.com/sebkasanzew/comoi/internal/user"
	"github.com/sebkasanzew/comoi/pkg/kafka"
	"github.com/sebkasanzew/comoi/pkg/metrics"
	"github.com/sebkasanzew/comoi/pkg/utilities"
)

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	if err := run(sugar); err != nil {
		sugar.Fatalw("comoi-api stopped", "err", err)
	}
	sugar.Info("goodbye")
}

func run(sugar *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := store.DriverFromEnv()
	if err != nil {
		return err
	}
	policy, err := order.TransitionPolicyFromEnv()
	if err != nil {
		return err
	}
	sugar.Infow("starting comoi-api", "store", driver, "transition_policy", policy)

	be, err := backend.Open(ctx, driver, sugar)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer be.Close()
	if driver == store.DriverMemory {
		sugar.Warn("memory store: data is lost on exit")
	}

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}

	verifier, devOIDC, err := authFromEnv(addr, sugar)
	if err != nil {
		return err
	}

	m := metrics.NewServerMetrics(prometheus.DefaultRegisterer)

	resolver := user.NewResolver(be.Users, sugar)
	guard := access.NewGuard(resolver, be.Catalog, be.Catalog, sugar)
	orders := order.NewService(be.Orders, be.Catalog, guard, sugar)
	orders.Policy = policy
	orders.Metrics = m

	kcfg := kafka.ConfigFromEnv()
	if kc := kafka.NewClient(kcfg.Brokers); kc.Enabled() {
		w := kc.NewWriter(kcfg.OrderTopic)
		defer w.Close()
		orders.Events = events.NewPublisher(w, sugar)
		sugar.Infow("publishing order events", "brokers", kcfg.Brokers, "topic", kcfg.OrderTopic)
	}

	handler := router.RegisterRoutes(router.Deps{
		Logger:   sugar,
		Verifier: verifier,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Orders:   order.NewHandler(orders, sugar),
		Catalog:  catalog.NewHandler(catalog.NewService(be.Catalog, sugar), sugar),
		Users:    user.NewHandler(resolver, sugar),
		DevOIDC:  devOIDC,
		Ping:     be.Ping,
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		sugar.Infow("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	sugar.Info("shutting down")
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	return nil
}

// authFromEnv builds the bearer verifier. With OIDC_DEV_ISSUER=true the server
// signs its own tokens and serves them under /comoi-api/oidc.
func authFromEnv(addr string, sugar *zap.SugaredLogger) (router.TokenVerifier, *oidc.Handler, error) {
	cfg := oidc.ConfigFromEnv()
	if cfg.DevIssuer {
		base := "http://" + addr + "/comoi-api/oidc"
		if cfg.Issuer == "" {
			cfg.Issuer = base
		}
		iss, err := oidc.NewIssuer(cfg.Issuer)
		if err != nil {
			return nil, nil, fmt.Errorf("dev issuer: %w", err)
		}
		sugar.Warnw("dev token issuer enabled; do not use in production", "issuer", cfg.Issuer)
		return iss.Verifier(cfg.Audience), oidc.NewHandler(iss, base, cfg.Audience, sugar), nil
	}
	v, err := oidc.NewVerifier(cfg)
	if err != nil {
		return nil, nil, err
	}
	return v, nil, nil
}
