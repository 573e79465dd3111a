package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Credentials{Email: "a", Password: "a", BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return m
}

func TestLogin_DemoCredentials(t *testing.T) {
	m := newManager(t)

	id, err := m.Login("a", "a")
	require.NoError(t, err)

	assert.Equal(t, "user123", id.ID)
	assert.True(t, m.IsAuthenticated())
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 2, cur.Ledger.Len())
	assert.Equal(t, 300, cur.Ledger.Stats().TotalSpent)
}

func TestLogin_WrongCredentialsLeaveIdentityUnset(t *testing.T) {
	m := newManager(t)

	_, err := m.Login("x", "y")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, m.IsAuthenticated())
}

func TestLogin_WrongPasswordClearsPreviousIdentity(t *testing.T) {
	m := newManager(t)
	_, err := m.Login("a", "a")
	require.NoError(t, err)

	_, err = m.Login("a", "nope")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, m.IsAuthenticated())
}

func TestSignup_CreatesEmptyLedger(t *testing.T) {
	m := newManager(t)

	id, err := m.Signup(" Asha ", "asha@example.com", "secret")
	require.NoError(t, err)

	assert.NotEmpty(t, id.ID)
	assert.NotEqual(t, "user123", id.ID)
	assert.Equal(t, "Asha", id.Name)
	cur, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, 0, cur.Ledger.Len())
	assert.NotEqual(t, "secret", cur.passwordHash)
}

func TestSignup_IDsAreUnique(t *testing.T) {
	m := newManager(t)

	a, err := m.Signup("A", "a@example.com", "pw")
	require.NoError(t, err)
	b, err := m.Signup("B", "b@example.com", "pw")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestSignup_Rejects(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"", "a@example.com", "pw"},
		{"A", "", "pw"},
		{"A", "a@example.com", "   "},
		{"A", "a b@example.com", "pw"},
	}
	for _, tt := range tests {
		m := newManager(t)
		_, err := m.Signup(tt.name, tt.email, tt.password)
		assert.ErrorIs(t, err, ErrInvalidSignup)
		assert.False(t, m.IsAuthenticated())
	}
}

func TestLogout_ClearsIdentity(t *testing.T) {
	m := newManager(t)
	_, err := m.Login("a", "a")
	require.NoError(t, err)

	m.Logout()
	m.Logout()

	assert.False(t, m.IsAuthenticated())
	_, err = m.RequireCurrent()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
