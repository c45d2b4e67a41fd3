package resolver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/adapter/customer"
	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

// Strategy names one lookup key for canonical identity resolution. The
// resolution policy is the ordered list of strategies, tried in sequence
// until the first success.
type Strategy struct {
	Name string
	Key  func(domain.SessionToken) string
}

// DefaultStrategies resolves by mobile first, then falls back to email.
// OAuth and OTP-phone logins each populate only one of the two; trying the
// known key first and falling back to the other is how both login paths
// converge on one customer record. Empty keys are still attempted: a blank
// mobile simply fails the lookup and falls through.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "mobile", Key: func(t domain.SessionToken) string { return t.Mobile }},
		{Name: "email", Key: func(t domain.SessionToken) string { return t.Email }},
	}
}

// Resolver looks up the authoritative customer record for a session token.
type Resolver struct {
	customers  customer.Client
	strategies []Strategy
	logger     *zap.Logger
}

// New constructs a Resolver. A nil strategies slice selects the defaults.
func New(customers customer.Client, strategies []Strategy, logger *zap.Logger) *Resolver {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Resolver{customers: customers, strategies: strategies, logger: logger}
}

// Resolve tries each strategy in order, stopping at the first successful
// lookup. There is no retry within a strategy and no key beyond the list.
func (r *Resolver) Resolve(ctx context.Context, token domain.SessionToken) (*domain.CustomerRecord, error) {
	var lastErr error
	for _, strategy := range r.strategies {
		key := strategy.Key(token)
		record, err := r.customers.Lookup(ctx, key)
		if err != nil {
			r.log().Debug("resolution attempt failed",
				zap.String("strategy", strategy.Name),
				zap.Error(err),
			)
			lastErr = fmt.Errorf("%s lookup: %w", strategy.Name, err)
			continue
		}
		return record, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no resolution strategies configured")
	}
	return nil, lastErr
}

func (r *Resolver) log() *zap.Logger {
	if r != nil && r.logger != nil {
		return r.logger
	}
	return zap.L()
}
