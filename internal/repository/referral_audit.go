package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferralAuditEntry is one attempted referral completion. The backend has
// no de-duplication on completion events; the audit trail gives operators a
// local record to reconcile duplicates against.
type ReferralAuditEntry struct {
	ID             int64
	ReferredEmail  string
	ReferredName   string
	ReferredMobile string
	ReferralCode   string
	Amount         int64
	Delivered      bool
	CreatedAt      time.Time
}

// ReferralAuditRepo records referral completion attempts.
type ReferralAuditRepo interface {
	Record(ctx context.Context, entry ReferralAuditEntry) error
}

// PostgresReferralAuditRepo implements ReferralAuditRepo using pgx.
type PostgresReferralAuditRepo struct {
	pool *pgxpool.Pool
}

var _ ReferralAuditRepo = (*PostgresReferralAuditRepo)(nil)

// NewPostgresReferralAuditRepo constructs the pgx-backed audit repository.
func NewPostgresReferralAuditRepo(pool *pgxpool.Pool) *PostgresReferralAuditRepo {
	return &PostgresReferralAuditRepo{pool: pool}
}

const insertReferralAuditSQL = `INSERT INTO referral_audit
(id, referred_email, referred_name, referred_mobile, referral_code, amount, delivered, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// Record inserts one audit row.
func (r *PostgresReferralAuditRepo) Record(ctx context.Context, entry ReferralAuditEntry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if _, err := r.pool.Exec(ctx, insertReferralAuditSQL,
		entry.ID,
		entry.ReferredEmail,
		entry.ReferredName,
		entry.ReferredMobile,
		entry.ReferralCode,
		entry.Amount,
		entry.Delivered,
		createdAt,
	); err != nil {
		return fmt.Errorf("insert referral audit: %w", err)
	}
	return nil
}
