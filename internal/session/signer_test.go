package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSigningKey = "0123456789abcdef0123456789abcdef"

func TestSigner_RoundTrip(t *testing.T) {
	signer := NewSigner(testSigningKey, time.Hour)

	id := NewID()
	raw, err := signer.Sign(id)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := signer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestSigner_RejectsTampered(t *testing.T) {
	signer := NewSigner(testSigningKey, time.Hour)

	raw, err := signer.Sign("session-1")
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = signer.Verify(tampered)
	require.Error(t, err)
}

func TestSigner_RejectsWrongKey(t *testing.T) {
	signer := NewSigner(testSigningKey, time.Hour)
	other := NewSigner("ffffffffffffffffffffffffffffffff", time.Hour)

	raw, err := signer.Sign("session-1")
	require.NoError(t, err)

	_, err = other.Verify(raw)
	require.Error(t, err)
}

func TestSigner_RejectsExpired(t *testing.T) {
	signer := NewSigner(testSigningKey, -time.Minute)

	raw, err := signer.Sign("session-1")
	require.NoError(t, err)

	_, err = signer.Verify(raw)
	require.Error(t, err)
}
