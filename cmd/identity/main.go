package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/CJPJ007/ar-properties-identity/internal/adapter/cache"
	customeradapter "github.com/CJPJ007/ar-properties-identity/internal/adapter/customer"
	idpadapter "github.com/CJPJ007/ar-properties-identity/internal/adapter/idp"
	referraladapter "github.com/CJPJ007/ar-properties-identity/internal/adapter/referral"
	"github.com/CJPJ007/ar-properties-identity/internal/bootstrap"
	"github.com/CJPJ007/ar-properties-identity/internal/config"
	"github.com/CJPJ007/ar-properties-identity/internal/enrich"
	httptransport "github.com/CJPJ007/ar-properties-identity/internal/http"
	"github.com/CJPJ007/ar-properties-identity/internal/http/handler"
	httpmiddleware "github.com/CJPJ007/ar-properties-identity/internal/http/middleware"
	apimiddleware "github.com/CJPJ007/ar-properties-identity/internal/middleware"
	"github.com/CJPJ007/ar-properties-identity/internal/referral"
	"github.com/CJPJ007/ar-properties-identity/internal/repository"
	"github.com/CJPJ007/ar-properties-identity/internal/resolver"
	"github.com/CJPJ007/ar-properties-identity/internal/server"
	"github.com/CJPJ007/ar-properties-identity/internal/session"
	"github.com/CJPJ007/ar-properties-identity/internal/telemetry"
	"github.com/CJPJ007/ar-properties-identity/internal/verifier"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newRedisClient,
			newSessionStore,
			newSessionSigner,
			newProviderClient,
			newVerifier,
			newCustomerClient,
			newReferralClient,
			newResolver,
			enrich.New,
			newReferralAuditRepo,
			referral.NewCompleter,
			newSessionMiddleware,
			newRateLimiter,
			handler.NewAuthHandler,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureSchema, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newRedisClient(lc fx.Lifecycle, cfg config.Config) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func newSessionStore(client redis.UniversalClient) session.Store {
	return cacheadapter.NewRedisSessionStore(client)
}

func newSessionSigner(cfg config.Config) *session.Signer {
	return session.NewSigner(cfg.SessionSigningKey, cfg.SessionTTL)
}

func newProviderClient(cfg config.Config) idpadapter.ProviderClient {
	return idpadapter.NewHTTPProviderClient(cfg.IdPJWKSURL, cfg.IdPProfileURL, nil)
}

func newVerifier(provider idpadapter.ProviderClient, cfg config.Config, logger *zap.Logger) *verifier.Verifier {
	return verifier.New(provider, cfg.IdPIssuer, logger)
}

func newCustomerClient(cfg config.Config) customeradapter.Client {
	return customeradapter.NewHTTPClient(cfg.BackendAPIURL, nil)
}

func newReferralClient(cfg config.Config) referraladapter.Client {
	return referraladapter.NewHTTPClient(cfg.BackendAPIURL, nil)
}

func newResolver(customers customeradapter.Client, logger *zap.Logger) *resolver.Resolver {
	return resolver.New(customers, nil, logger)
}

func newReferralAuditRepo(pool *pgxpool.Pool) repository.ReferralAuditRepo {
	return repository.NewPostgresReferralAuditRepo(pool)
}

func newSessionMiddleware(store session.Store, signer *session.Signer, enricher *enrich.Enricher, cfg config.Config, logger *zap.Logger) *httpmiddleware.Session {
	return &httpmiddleware.Session{
		Store:      store,
		Signer:     signer,
		Enricher:   enricher,
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Logger:     logger,
	}
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
