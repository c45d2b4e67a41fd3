package session

import "github.com/CJPJ007/ar-properties-identity/internal/domain"

// Project maps a session token to the client-visible session shape. Pure:
// no I/O, no mutation, safe on every request.
func Project(token domain.SessionToken) domain.Session {
	return domain.Session{
		User: domain.SessionUser{
			ID:           token.Subject,
			Name:         token.Name,
			Email:        token.Email,
			Image:        token.Avatar,
			Mobile:       token.Mobile,
			ReferralCode: token.ReferralCode,
		},
	}
}
