package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccount_EmailCheckToken(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	account := &Account{}
	require.False(t, account.IsValidToken(""))

	account.GenerateEmailCheckToken(now)
	require.NotEmpty(t, account.EmailCheckToken)
	require.True(t, account.IsValidToken(account.EmailCheckToken))
	require.False(t, account.IsValidToken("something-else"))

	// A regenerated token invalidates the old one.
	old := account.EmailCheckToken
	account.GenerateEmailCheckToken(now.Add(2 * time.Hour))
	require.False(t, account.IsValidToken(old))
}

func TestAccount_CanSendConfirmEmail(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	account := &Account{}
	require.True(t, account.CanSendConfirmEmail(now))

	account.GenerateEmailCheckToken(now)
	require.False(t, account.CanSendConfirmEmail(now.Add(30*time.Minute)))
	require.True(t, account.CanSendConfirmEmail(now.Add(61*time.Minute)))
}

func TestAccount_CompleteSignUp(t *testing.T) {
	now := time.Now()

	account := &Account{}
	account.CompleteSignUp(now)
	require.True(t, account.EmailVerified)
	require.Equal(t, now, *account.JoinedAt)
}
