package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/adapter/customer"
	"github.com/CJPJ007/ar-properties-identity/internal/domain"
	"github.com/CJPJ007/ar-properties-identity/internal/resolver"
)

// Enricher keeps session tokens synchronized against the customer store.
// It runs on every token issuance and every refresh, and can never cause an
// authentication failure: all of its errors are recoverable by contract.
type Enricher struct {
	customers customer.Client
	resolver  *resolver.Resolver
	logger    *zap.Logger
}

// New constructs an Enricher.
func New(customers customer.Client, res *resolver.Resolver, logger *zap.Logger) *Enricher {
	return &Enricher{customers: customers, resolver: res, logger: logger}
}

// Login seeds a token from freshly verified claims, upserts the customer
// record, and runs the first resolution pass. The upsert is fire-and-forget
// with respect to the session outcome: on failure the token proceeds with
// provider-supplied values.
func (e *Enricher) Login(ctx context.Context, claims domain.IdentityClaims) domain.SessionToken {
	token := domain.SessionToken{
		Subject: claims.SubjectID,
		Mobile:  claims.PhoneNumber,
		Name:    claims.DisplayName,
		Email:   claims.Email,
		Avatar:  claims.PhotoURL,
	}

	if err := e.customers.Upsert(ctx, domain.CustomerUpsert{
		Name:   token.Name,
		Email:  token.Email,
		Mobile: token.Mobile,
		Avatar: token.Avatar,
	}); err != nil {
		e.log().Warn("customer upsert failed", zap.Error(err))
	}

	token, err := e.Refresh(ctx, token)
	if err != nil {
		e.log().Warn("login enrichment failed", zap.Error(err))
	}
	return token
}

// Refresh resolves the canonical customer record for the token and merges
// the backend-authoritative fields into a copy. Backend data always wins
// over provider-supplied data. When resolution fails on every key the input
// token is returned field-for-field unchanged alongside an
// *domain.EnrichmentError the caller may log or ignore.
func (e *Enricher) Refresh(ctx context.Context, token domain.SessionToken) (domain.SessionToken, error) {
	record, err := e.resolver.Resolve(ctx, token)
	if err != nil {
		return token, &domain.EnrichmentError{Step: "resolve", Err: err}
	}

	token.Mobile = record.Mobile
	token.Name = record.Name
	token.Email = record.Email
	token.ReferralCode = record.ReferralCode
	return token, nil
}

func (e *Enricher) log() *zap.Logger {
	if e != nil && e.logger != nil {
		return e.logger
	}
	return zap.L()
}
