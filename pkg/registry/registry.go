// Package registry owns the set of accounts, enforcing unique usernames and
// performing credential verification.
package registry

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/minibank/ledger/pkg/account"
	"github.com/minibank/ledger/pkg/money"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateUsername is returned when registering a username that is
	// already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned for both unknown usernames and wrong
	// passwords; the caller cannot tell which.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

const (
	seedUsername = "admin"
	seedPassword = "admin"
)

// Registry maps usernames to accounts. Register and Lookup serialize on one
// lock so two concurrent registrations of the same username cannot both
// succeed.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*account.Account
	logger   *slog.Logger
}

// New creates a registry pre-seeded with the "admin"/"admin" account. The
// opening balance of 1000.00 is credited through a regular deposit so it
// appears as the first entry in the admin history.
func New(logger *slog.Logger) *Registry {
	r := &Registry{
		accounts: make(map[string]*account.Account),
		logger:   logger,
	}
	admin, err := r.Register(seedUsername, seedPassword)
	if err != nil {
		panic("registry: seeding admin account: " + err.Error())
	}
	if err := admin.Deposit(money.MustParse("1000")); err != nil {
		panic("registry: crediting admin account: " + err.Error())
	}
	return r
}

// Register creates a zero-balance account for username. The password is
// stored as a bcrypt hash.
func (r *Registry) Register(username, password string) (*account.Account, error) {
	// Hashing is slow; do it before taking the lock.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.accounts[username]; exists {
		return nil, ErrDuplicateUsername
	}
	a := account.New(username, string(hash))
	r.accounts[username] = a
	r.logger.Info("account registered", "username", username)
	return a, nil
}

// Authenticate returns the account for username if the password matches.
// Unknown usernames and wrong passwords both report ErrInvalidCredentials.
func (r *Registry) Authenticate(username, password string) (*account.Account, error) {
	r.mu.RLock()
	a, ok := r.accounts[username]
	r.mu.RUnlock()

	const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"
	if !ok {
		// Always compare against a hash so unknown users take as long as
		// wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash()), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// Lookup resolves a username to its account.
func (r *Registry) Lookup(username string) (*account.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.accounts[username]
	return a, ok
}

// All returns a snapshot of every account, sorted by username so listings
// are reproducible.
func (r *Registry) All() []*account.Account {
	r.mu.RLock()
	out := make([]*account.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Username() < out[j].Username()
	})
	return out
}
