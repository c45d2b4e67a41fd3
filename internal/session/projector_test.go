package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
)

func TestProject(t *testing.T) {
	token := domain.SessionToken{
		Subject:      "sub-1",
		Mobile:       "999",
		Name:         "X",
		Email:        "x@y.com",
		ReferralCode: "R1",
		Avatar:       "https://img",
	}

	projected := Project(token)
	require.Equal(t, "sub-1", projected.User.ID)
	require.Equal(t, "999", projected.User.Mobile)
	require.Equal(t, "x@y.com", projected.User.Email)
	require.Equal(t, "R1", projected.User.ReferralCode)
	require.Equal(t, "X", projected.User.Name)
	require.Equal(t, "https://img", projected.User.Image)

	// Referentially transparent: same input, same output, token untouched.
	require.Equal(t, projected, Project(token))
	require.Equal(t, "999", token.Mobile)
}
