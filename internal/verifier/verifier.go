package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	gojose "github.com/go-jose/go-jose/v4"
	gojwt "github.com/go-jose/go-jose/v4/jwt"
	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/adapter/idp"
	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

var allowedAlgorithms = []gojose.SignatureAlgorithm{gojose.RS256, gojose.ES256}

// Verifier validates signed identity assertions against the provider's
// trust root and extracts canonical claims. Every provider-side failure is
// collapsed into domain.ErrInvalidCredential; detail is logged, never
// returned.
type Verifier struct {
	provider idp.ProviderClient
	issuer   string
	logger   *zap.Logger
}

// New constructs a Verifier bound to one identity provider.
func New(provider idp.ProviderClient, issuer string, logger *zap.Logger) *Verifier {
	return &Verifier{provider: provider, issuer: issuer, logger: logger}
}

type assertionClaims struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Picture     string `json:"picture"`
}

// Verify checks the assertion's signature, issuer, and expiry, then performs
// the secondary canonical-profile lookup by subject id to obtain the full
// claim set. Assertion values win over profile values where both are present.
func (v *Verifier) Verify(ctx context.Context, rawAssertion string) (domain.IdentityClaims, error) {
	parsed, err := gojwt.ParseSigned(rawAssertion, allowedAlgorithms)
	if err != nil {
		return v.invalid("parse assertion", err)
	}

	keys, err := v.provider.Keys(ctx)
	if err != nil {
		return v.invalid("load trust root", err)
	}

	var std gojwt.Claims
	var custom assertionClaims
	if err := verifyWithKeys(parsed, keys, &std, &custom); err != nil {
		return v.invalid("verify signature", err)
	}

	if err := std.Validate(gojwt.Expected{Issuer: v.issuer, Time: time.Now()}); err != nil {
		return v.invalid("validate claims", err)
	}
	if strings.TrimSpace(std.Subject) == "" {
		return v.invalid("validate claims", fmt.Errorf("missing subject"))
	}

	claims := domain.IdentityClaims{SubjectID: std.Subject}
	profile, err := v.provider.FetchProfile(ctx, std.Subject)
	if err != nil {
		return v.invalid("fetch profile", err)
	}
	claims.Email = profile.Email
	claims.PhoneNumber = profile.PhoneNumber
	claims.DisplayName = profile.DisplayName
	claims.PhotoURL = profile.PhotoURL

	if custom.Email != "" {
		claims.Email = custom.Email
	}
	if custom.PhoneNumber != "" {
		claims.PhoneNumber = custom.PhoneNumber
	}
	if custom.Name != "" {
		claims.DisplayName = custom.Name
	}
	if custom.Picture != "" {
		claims.PhotoURL = custom.Picture
	}

	return claims, nil
}

func verifyWithKeys(parsed *gojwt.JSONWebToken, keys *gojose.JSONWebKeySet, dest ...any) error {
	candidates := keys.Keys
	if len(parsed.Headers) > 0 {
		if kid := parsed.Headers[0].KeyID; kid != "" {
			if matched := keys.Key(kid); len(matched) > 0 {
				candidates = matched
			}
		}
	}

	var lastErr error
	for _, key := range candidates {
		if err := parsed.Claims(key, dest...); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate keys")
	}
	return lastErr
}

func (v *Verifier) invalid(step string, err error) (domain.IdentityClaims, error) {
	v.log().Debug("credential rejected", zap.String("step", step), zap.Error(err))
	return domain.IdentityClaims{}, domain.ErrInvalidCredential
}

func (v *Verifier) log() *zap.Logger {
	if v != nil && v.logger != nil {
		return v.logger
	}
	return zap.L()
}
