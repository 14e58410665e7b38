// Command server wires the paygate service: wallet resolution, reward
// distribution, the admin surface, and operational endpoints. Business logic
// lives in the internal packages; main only assembles and supervises.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"paygate/internal/audit"
	auditpg "paygate/internal/audit/store/postgres"
	"paygate/internal/backends"
	"paygate/internal/distribution"
	"paygate/internal/distribution/finality"
	disthandler "paygate/internal/distribution/handler"
	"paygate/internal/distribution/lock"
	jwttoken "paygate/internal/jwt_token"
	"paygate/internal/platform/config"
	"paygate/internal/platform/httpserver"
	"paygate/internal/platform/logger"
	platformredis "paygate/internal/platform/redis"
	"paygate/internal/ratelimit"
	rlhandler "paygate/internal/ratelimit/handler"
	rlmetrics "paygate/internal/ratelimit/metrics"
	"paygate/internal/ratelimit/ports"
	"paygate/internal/ratelimit/store/bucket"
	httptransport "paygate/internal/transport/http"
	"paygate/internal/wallet/cache"
	wallethandler "paygate/internal/wallet/handler"
	"paygate/internal/wallet/resolver"
	"paygate/internal/wallet/validate"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.Server.LogLevel))

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Admission-control state lives in redis when configured so limits hold
	// across replicas; otherwise in process memory.
	var buckets ports.BucketStore = bucket.NewInMemoryBucketStore()
	if cfg.Redis.URL != "" {
		redisClient, err := platformredis.New(cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
		buckets = bucket.NewRedisBucketStore(redisClient.Client)
		log.Info("rate limit store: redis")
	} else {
		log.Info("rate limit store: memory")
	}

	limiterMetrics := rlmetrics.New(registry)
	lookupLimiter, err := ratelimit.New(buckets,
		ratelimit.WithLimit(cfg.Wallet.LookupLimit),
		ratelimit.WithWindow(cfg.Wallet.LookupWindow),
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(limiterMetrics),
	)
	if err != nil {
		return err
	}
	dispatchLimiter, err := ratelimit.New(buckets,
		ratelimit.WithLimit(cfg.Distribution.DispatchLimit),
		ratelimit.WithWindow(cfg.Distribution.DispatchWindow),
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(limiterMetrics),
	)
	if err != nil {
		return err
	}

	// Audit trail: durable in postgres when configured, with an optional
	// kafka fan-out for downstream consumers.
	var auditStore audit.Store = audit.NewInMemoryStore()
	if cfg.Audit.PostgresURL != "" {
		pgStore, err := auditpg.Open(ctx, cfg.Audit.PostgresURL)
		if err != nil {
			return err
		}
		defer pgStore.Close()
		auditStore = pgStore
		log.Info("audit store: postgres")
	} else {
		log.Info("audit store: memory")
	}
	auditOpts := []audit.Option{audit.WithLogger(log)}
	if len(cfg.Audit.KafkaBrokers) > 0 {
		sink, err := audit.NewKafkaSink(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
		if err != nil {
			return err
		}
		defer sink.Close()
		auditOpts = append(auditOpts, audit.WithSink(sink))
		log.Info("audit sink: kafka", "topic", cfg.Audit.KafkaTopic)
	}
	trail := audit.NewPublisher(auditStore, auditOpts...)

	validator := validate.Validator{
		AliasSuffixes: cfg.Wallet.AliasSuffixes,
		MinAmount:     cfg.Distribution.MinAmount,
	}

	// External capabilities ship as latency-shaped stubs until the real
	// lookup and transfer services are connected.
	identityLookup := &backends.StubIdentityLookup{Latency: 50 * time.Millisecond}
	tokenTransfer := &backends.StubTokenTransfer{Latency: 100 * time.Millisecond}
	txStatus := &backends.StubTxStatus{Latency: 20 * time.Millisecond}

	resolutionCache := cache.New(
		cache.WithCapacity(cfg.Wallet.CacheCapacity),
		cache.WithTTL(cfg.Wallet.CacheTTL),
	)
	walletSvc, err := resolver.New(identityLookup, resolutionCache, lookupLimiter,
		resolver.WithLogger(log),
		resolver.WithMetrics(resolver.NewMetrics(registry)),
		resolver.WithValidator(validator),
	)
	if err != nil {
		return err
	}

	locks := lock.New(lock.WithMaxWait(cfg.Distribution.LockWait))
	engine, err := distribution.New(tokenTransfer, locks, dispatchLimiter,
		distribution.WithLogger(log),
		distribution.WithMetrics(distribution.NewMetrics(registry)),
		distribution.WithAudit(trail),
		distribution.WithValidator(validator),
	)
	if err != nil {
		return err
	}

	checker := finality.New(txStatus, finality.WithLogger(log))

	jwtSvc := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, "paygate", "paygate-api")

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Wallet:         wallethandler.New(walletSvc, log),
		Distribution:   disthandler.New(engine, checker, trail, log, jwttoken.NewJWTServiceAdapter(jwtSvc)),
		RateLimitAdmin: rlhandler.New(dispatchLimiter, log),
		AdminTokenHash: cfg.Server.AdminTokenHash,
		Registry:       registry,
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting paygate", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		return httpserver.Shutdown(srv)
	})

	return g.Wait()
}
