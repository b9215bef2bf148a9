package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue(42, "ADMIN")
	require.NoError(t, err)

	claims, err := svc.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.MemberID)
	require.Equal(t, "ADMIN", claims.Role)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	svc := NewService("test-secret", time.Minute)
	signed, err := svc.Issue(1, "USER")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	other := NewService("other-secret", time.Minute)
	_, err = other.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.Parse("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
