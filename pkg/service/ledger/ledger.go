// Package ledger provides the orchestration layer around account mutation:
// registration, login sessions, and the three money operations. All business
// validation happens here before an account is touched; the account itself
// re-checks only what protects its own invariants.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minibank/ledger/pkg/account"
	"github.com/minibank/ledger/pkg/money"
	"github.com/minibank/ledger/pkg/registry"
)

var (
	// ErrInvalidInput is returned when registration is attempted with an
	// empty username or password.
	ErrInvalidInput = errors.New("username and password must not be empty")

	// ErrInvalidRecipient is returned when a transfer names an unknown
	// username or the sender's own account.
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrUnauthorized is returned when a non-admin session requests the
	// balance listing.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrSessionInvalid is returned when an operation is attempted with a
	// nil, expired, or logged-out session.
	ErrSessionInvalid = errors.New("session is not logged in")
)

// adminUsername is the only account allowed to list all balances.
const adminUsername = "admin"

// Service orchestrates registration, authentication sessions, and the money
// operations. It is safe for concurrent use.
type Service struct {
	registry *registry.Registry
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// New creates a ledger service over the given registry.
func New(reg *registry.Registry, logger *slog.Logger) *Service {
	return &Service{
		registry: reg,
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Register creates a new zero-balance account. Empty usernames and passwords
// are rejected before the registry's duplicate check runs.
func (s *Service) Register(username, password string) error {
	log := s.logger.With("context", "Register", "username", username)
	if username == "" || password == "" {
		log.Warn("registration rejected", "error", ErrInvalidInput)
		return ErrInvalidInput
	}
	if _, err := s.registry.Register(username, password); err != nil {
		log.Error("registration failed", "error", err)
		return err
	}
	log.Info("registration successful")
	return nil
}

// Login authenticates the credentials and opens a session bound to the
// account. Unknown usernames and wrong passwords fail identically.
func (s *Service) Login(username, password string) (*Session, error) {
	log := s.logger.With("context", "Login", "username", username)
	a, err := s.registry.Authenticate(username, password)
	if err != nil {
		log.Error("login failed", "error", err)
		return nil, err
	}

	sess := &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		account:   a,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	log.Info("login successful", "sessionID", sess.ID)
	return sess, nil
}

// Logout invalidates the session. Logging out an already-invalid session is
// a no-op.
func (s *Service) Logout(sess *Session) {
	if sess == nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	s.logger.Info("logout", "sessionID", sess.ID, "username", sess.Username())
}

// Session resolves a session ID to its live session, if any.
func (s *Service) Session(id uuid.UUID) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Deposit parses the amount text and credits the session's account,
// returning the new balance.
func (s *Service) Deposit(sess *Session, amountText string) (money.Money, error) {
	a, err := s.require(sess)
	if err != nil {
		return money.Zero(), err
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return money.Zero(), err
	}
	if err := a.Deposit(amount); err != nil {
		return money.Zero(), err
	}
	balance := a.Balance()
	s.logger.Info("deposit applied",
		"username", a.Username(), "amount", amount.String(), "balance", balance.Fixed())
	return balance, nil
}

// Withdraw parses the amount text and debits the session's account,
// returning the new balance. Insufficient funds surface as
// account.ErrInsufficientFunds.
func (s *Service) Withdraw(sess *Session, amountText string) (money.Money, error) {
	a, err := s.require(sess)
	if err != nil {
		return money.Zero(), err
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return money.Zero(), err
	}
	if err := a.Withdraw(amount); err != nil {
		s.logger.Warn("withdrawal rejected",
			"username", a.Username(), "amount", amount.String(), "error", err)
		return money.Zero(), err
	}
	balance := a.Balance()
	s.logger.Info("withdrawal applied",
		"username", a.Username(), "amount", amount.String(), "balance", balance.Fixed())
	return balance, nil
}

// Transfer moves funds from the session's account to the named recipient as
// one atomic unit and returns the sender's new balance. The recipient is
// resolved before the amount is parsed, matching the order a teller would
// check; unknown recipients and self-transfers fail with ErrInvalidRecipient.
func (s *Service) Transfer(sess *Session, toUsername, amountText string) (money.Money, error) {
	a, err := s.require(sess)
	if err != nil {
		return money.Zero(), err
	}
	recipient, ok := s.registry.Lookup(toUsername)
	if !ok || recipient == a {
		return money.Zero(), fmt.Errorf("%w: %q", ErrInvalidRecipient, toUsername)
	}
	amount, err := parseAmount(amountText)
	if err != nil {
		return money.Zero(), err
	}
	if err := account.Transfer(a, recipient, amount); err != nil {
		s.logger.Warn("transfer rejected",
			"from", a.Username(), "to", toUsername, "amount", amount.String(), "error", err)
		return money.Zero(), err
	}
	balance := a.Balance()
	s.logger.Info("transfer applied",
		"from", a.Username(), "to", toUsername, "amount", amount.String(), "balance", balance.Fixed())
	return balance, nil
}

// Balance returns the session's account balance.
func (s *Service) Balance(sess *Session) (money.Money, error) {
	a, err := s.require(sess)
	if err != nil {
		return money.Zero(), err
	}
	return a.Balance(), nil
}

// History returns the session's account's full transaction log, oldest first.
func (s *Service) History(sess *Session) ([]string, error) {
	a, err := s.require(sess)
	if err != nil {
		return nil, err
	}
	return a.History(), nil
}

// ListBalances returns every account's balance keyed by username. Only the
// admin session is authorized.
func (s *Service) ListBalances(sess *Session) (map[string]money.Money, error) {
	a, err := s.require(sess)
	if err != nil {
		return nil, err
	}
	if a.Username() != adminUsername {
		return nil, ErrUnauthorized
	}
	out := make(map[string]money.Money)
	for _, acc := range s.registry.All() {
		out[acc.Username()] = acc.Balance()
	}
	return out, nil
}

// require checks that the session is live and returns its account.
func (s *Service) require(sess *Session) (*account.Account, error) {
	if sess == nil {
		return nil, ErrSessionInvalid
	}
	s.mu.RLock()
	_, ok := s.sessions[sess.ID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionInvalid
	}
	return sess.account, nil
}

// parseAmount converts amount text to Money, rejecting unparsable and
// non-positive input as money.ErrInvalidAmount.
func parseAmount(text string) (money.Money, error) {
	m, err := money.Parse(text)
	if err != nil {
		return money.Zero(), err
	}
	if !m.IsPositive() {
		return money.Zero(), fmt.Errorf("%w: must be positive", money.ErrInvalidAmount)
	}
	return m, nil
}
