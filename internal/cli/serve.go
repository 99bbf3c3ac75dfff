package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/carlfalc/glutenworld-sub001/internal/config"
	"github.com/carlfalc/glutenworld-sub001/internal/httpapi"
	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
	"github.com/carlfalc/glutenworld-sub001/pkg/httpserver"
	"github.com/carlfalc/glutenworld-sub001/pkg/identity"
	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
	"github.com/carlfalc/glutenworld-sub001/pkg/logger"
	"github.com/carlfalc/glutenworld-sub001/pkg/metrics"
	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
)

func newServeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), g)
		},
	}
}

func serve(ctx context.Context, g *globals) error {
	cfg, log := g.cfg, g.log

	pool, err := pgstore.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	if cfg.Postgres.AutoMigrate {
		if err := pgstore.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
			return err
		}
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pgstore.Healthcheck(pool)}}
	store, storeMiddleware, closeStore, err := trialStore(ctx, cfg, &checks)
	if err != nil {
		return err
	}
	defer closeStore()

	parser, err := identity.NewParser(cfg.Auth.JWTSecret, identity.WithLeeway(cfg.Auth.ClockLeeway))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	statuses := pgstore.NewStatusStore(pool)
	billingSvc, err := billingService(cfg, statuses, m, g)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:          log,
		Metrics:         m,
		Gatherer:        reg,
		Tokens:          parser,
		AuthCookie:      cfg.Auth.CookieName,
		Statuses:        statuses,
		Roles:           pgstore.NewRoleStore(pool),
		Store:           store,
		StoreMiddleware: storeMiddleware,
		Billing:         billingSvc,
		AuthPath:        cfg.Gate.AuthPath,
		PaywallPath:     cfg.Gate.PaywallPath,
		RetryAfter:      cfg.Gate.RetryAfter,
		BaseURL:         cfg.App.BaseURL,
		Checks:          checks,
	})

	log.InfoContext(ctx, "starting accessd",
		logger.Provider(billingSvc.Provider()),
		logger.Component(cfg.Trial.Store),
	)
	return httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, router)
}

// trialStore picks where anonymous trial records and notices live.
func trialStore(ctx context.Context, cfg config.Config, checks *[]httpserver.Check) (kv.Store, func(http.Handler) http.Handler, func(), error) {
	switch cfg.Trial.Store {
	case config.TrialStoreRedis:
		client, err := kv.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		*checks = append(*checks, httpserver.Check{Name: "redis", Fn: kv.RedisHealthcheck(client)})
		store := kv.NewRedis(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
		return store, kv.VisitorMiddleware(cfg.Trial.VisitorCookie, cfg.Production()), closeRedis(client), nil

	default:
		opts := []kv.CookieOption{kv.WithCookieSecure(cfg.Production())}
		if cfg.Trial.CookieDomain != "" {
			opts = append(opts, kv.WithCookieDomain(cfg.Trial.CookieDomain))
		}
		store, err := kv.NewCookie(cfg.Trial.CookieSecrets, opts...)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, store.Middleware, func() {}, nil
	}
}

func closeRedis(client *redis.Client) func() {
	return func() { _ = client.Close() }
}

func billingService(cfg config.Config, customers billing.CustomerLookup, m *metrics.Metrics, g *globals) (*billing.Service, error) {
	var (
		provider billing.Provider = billing.Disabled{}
		err      error
	)
	switch cfg.Billing.Provider {
	case config.ProviderStripe:
		provider, err = billing.NewStripe(cfg.Billing.Stripe)
	case config.ProviderPaddle:
		provider, err = billing.NewPaddle(cfg.Billing.Paddle)
	}
	if err != nil {
		return nil, err
	}

	var catalog *billing.Catalog
	if cfg.Billing.Provider != config.ProviderNone {
		catalog, err = billing.LoadCatalog(cfg.Billing.PlansFile)
		if err != nil {
			return nil, fmt.Errorf("load plans from %s: %w", cfg.Billing.PlansFile, err)
		}
	}
	return billing.NewService(provider, catalog, customers,
		billing.WithServiceLogger(g.log),
		billing.WithLinkRecorder(m),
	), nil
}

var ErrConnect = errors.New("cli.connect_failed")

// connect opens the pool for one-shot commands.
func connect(ctx context.Context, g *globals) (*pgxpool.Pool, error) {
	pool, err := pgstore.Connect(ctx, g.cfg.Postgres)
	if err != nil {
		return nil, errors.Join(ErrConnect, err)
	}
	return pool, nil
}
