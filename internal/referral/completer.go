package referral

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	referraladapter "github.com/CJPJ007/ar-properties-identity/internal/adapter/referral"
	"github.com/CJPJ007/ar-properties-identity/internal/domain"
	"github.com/CJPJ007/ar-properties-identity/internal/repository"
)

// Completer posts referral completion events when a referred user lands on
// the post-login callback. Crediting is best-effort and carries no
// idempotency guarantee: every invocation with a code emits a fresh event.
type Completer struct {
	client referraladapter.Client
	audit  repository.ReferralAuditRepo
	node   *snowflake.Node
	logger *zap.Logger
}

// NewCompleter wires the referral completion service.
func NewCompleter(client referraladapter.Client, audit repository.ReferralAuditRepo, node *snowflake.Node, logger *zap.Logger) *Completer {
	return &Completer{client: client, audit: audit, node: node, logger: logger}
}

// Complete builds and delivers the completion event for the session's
// identity. The returned *domain.ReferralPostError is advisory: callers log
// it and redirect regardless. An audit row records each attempt and whether
// delivery succeeded; audit failures are logged only.
func (c *Completer) Complete(ctx context.Context, token domain.SessionToken, code string) error {
	event := domain.ReferralEvent{
		ReferredEmail:  token.Email,
		ReferredName:   token.Name,
		ReferredMobile: token.Mobile,
		ReferralCode:   code,
		Status:         domain.ReferralStatusCompleted,
		ReferralAmount: domain.ReferralAmount,
	}

	postErr := c.client.Post(ctx, event)
	c.record(ctx, event, postErr == nil)

	if postErr != nil {
		return &domain.ReferralPostError{Err: postErr}
	}
	return nil
}

func (c *Completer) record(ctx context.Context, event domain.ReferralEvent, delivered bool) {
	if c.audit == nil {
		return
	}
	entry := repository.ReferralAuditEntry{
		ID:             c.node.Generate().Int64(),
		ReferredEmail:  event.ReferredEmail,
		ReferredName:   event.ReferredName,
		ReferredMobile: event.ReferredMobile,
		ReferralCode:   event.ReferralCode,
		Amount:         event.ReferralAmount,
		Delivered:      delivered,
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		c.log().Warn("referral audit write failed", zap.Error(err))
	}
}

func (c *Completer) log() *zap.Logger {
	if c != nil && c.logger != nil {
		return c.logger
	}
	return zap.L()
}
