package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const createReferralAuditSQL = `CREATE TABLE IF NOT EXISTS referral_audit (
	id BIGINT PRIMARY KEY,
	referred_email TEXT NOT NULL,
	referred_name TEXT NOT NULL DEFAULT '',
	referred_mobile TEXT NOT NULL DEFAULT '',
	referral_code TEXT NOT NULL,
	amount BIGINT NOT NULL,
	delivered BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the audit table on startup if it is missing.
func EnsureSchema(lc fx.Lifecycle, pool *pgxpool.Pool, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return ensureSchema(ctx, pool, logger)
		},
	})
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, createReferralAuditSQL); err != nil {
		return fmt.Errorf("bootstrap referral_audit table: %w", err)
	}
	if logger != nil {
		logger.Info("schema bootstrap complete")
	}
	return nil
}
