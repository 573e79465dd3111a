// Package session holds the single current identity of a visit and the
// login, signup and logout operations that set or clear it.
package session

import (
	"errors"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"

	"github.com/iliyamo/museum-reservation/internal/ledger"
	"github.com/iliyamo/museum-reservation/internal/model"
	"github.com/iliyamo/museum-reservation/internal/utils"
)

var (
	// ErrInvalidCredentials is returned by Login for anything other than
	// the configured demo credential pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSignup is returned by Signup for empty or malformed input.
	ErrInvalidSignup = errors.New("invalid signup details")
	// ErrNotAuthenticated is returned when an operation needs a current identity.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Identity is the current visitor: profile plus ledger.
type Identity struct {
	model.Identity
	Ledger *ledger.Ledger

	passwordHash string
}

// Credentials configure the single account Login accepts.
type Credentials struct {
	Email      string
	Password   string
	BcryptCost int
}

// Manager owns the current-identity slot of one visit.  The zero state is
// anonymous; Logout returns to it.
type Manager struct {
	mu      sync.RWMutex
	current *Identity

	demoEmail string
	demoHash  string
	cost      int
}

// NewManager hashes the demo password once so Login compares against a
// bcrypt hash instead of the plain secret.
func NewManager(creds Credentials) (*Manager, error) {
	hash, err := utils.HashPassword(creds.Password, creds.BcryptCost)
	if err != nil {
		return nil, err
	}
	return &Manager{demoEmail: creds.Email, demoHash: hash, cost: creds.BcryptCost}, nil
}

// NewManagerWithHash builds a Manager from an existing bcrypt hash.  The
// registry uses it so every visit shares one start-up hash.
func NewManagerWithHash(email, hash string, cost int) *Manager {
	return &Manager{demoEmail: email, demoHash: hash, cost: cost}
}

// Login sets the demo identity when email and password match the
// configured pair.  Any other input clears the slot and fails.
func (m *Manager) Login(email, password string) (model.Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if email != m.demoEmail || !utils.VerifyPassword(m.demoHash, password) {
		m.current = nil
		return model.Identity{}, ErrInvalidCredentials
	}
	id := DemoIdentity(email)
	id.passwordHash = m.demoHash
	m.current = id
	return id.Identity, nil
}

// Signup creates a fresh identity with an empty ledger and makes it
// current.
func (m *Manager) Signup(name, email, password string) (model.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return model.Identity{}, ErrInvalidSignup
	}
	if strings.IndexFunc(email, unicode.IsSpace) >= 0 {
		return model.Identity{}, ErrInvalidSignup
	}
	hash, err := utils.HashPassword(password, m.cost)
	if err != nil {
		return model.Identity{}, err
	}
	id := &Identity{
		Identity:     model.Identity{ID: uuid.NewString(), Name: name, Email: email},
		Ledger:       ledger.New(),
		passwordHash: hash,
	}
	m.mu.Lock()
	m.current = id
	m.mu.Unlock()
	return id.Identity, nil
}

// Logout clears the current identity unconditionally.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the current identity, if any.
func (m *Manager) Current() (*Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != nil
}

// IsAuthenticated reports whether an identity is set.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// RequireCurrent returns the current identity or ErrNotAuthenticated.
func (m *Manager) RequireCurrent() (*Identity, error) {
	id, ok := m.Current()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return id, nil
}
