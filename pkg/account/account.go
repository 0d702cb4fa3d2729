// Package account defines the Account entity, the unit of mutation in the ledger.
//
// Invariants:
//   - The balance is never negative at any observable point.
//   - The transaction history is append-only; insertion order is chronological.
//   - All mutations on one account are applied under its lock; a transfer holds
//     both account locks so it is observed either fully applied or not at all.
package account

import (
	"errors"
	"fmt"
	"sync"

	"github.com/minibank/ledger/pkg/money"
)

var (
	// ErrAmountNotPositive is returned when a mutation is attempted with a
	// zero or negative amount. Callers validate amounts first; the account
	// still rejects them rather than corrupt its balance.
	ErrAmountNotPositive = errors.New("amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal or transfer exceeds
	// the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount is returned when a transfer names the sender as its own
	// recipient.
	ErrSameAccount = errors.New("cannot transfer to the same account")
)

// Account is a single user's balance and transaction log, keyed by username.
type Account struct {
	mu           sync.Mutex
	username     string
	passwordHash string
	balance      money.Money
	history      []string
}

// New creates a zero-balance account with an empty history.
// The username is immutable once set.
func New(username, passwordHash string) *Account {
	return &Account{
		username:     username,
		passwordHash: passwordHash,
	}
}

// Username returns the account's immutable username.
func (a *Account) Username() string {
	return a.username
}

// PasswordHash returns the stored credential hash for verification.
func (a *Account) PasswordHash() string {
	return a.passwordHash
}

// Balance returns the current balance.
func (a *Account) Balance() money.Money {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// History returns a copy of the transaction log, oldest entry first.
func (a *Account) History() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.history))
	copy(out, a.history)
	return out
}

// Deposit credits the account and appends a "Deposit: +<amount>" entry.
func (a *Account) Deposit(amount money.Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	a.balance = a.balance.Add(amount)
	a.history = append(a.history, fmt.Sprintf("Deposit: +%s", amount))
	return nil
}

// Withdraw debits the account and appends a "Withdrawal: -<amount>" entry.
// On failure the balance and history are left untouched.
func (a *Account) Withdraw(amount money.Money) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	a.history = append(a.history, fmt.Sprintf("Withdrawal: -%s", amount))
	return nil
}

// Transfer moves amount from one account to another as a single atomic unit:
// the debit, the credit, and both log entries are applied while holding both
// account locks. Locks are acquired in lexicographic username order so that
// two transfers targeting each other cannot deadlock.
func Transfer(from, to *Account, amount money.Money) error {
	if from == to || from.username == to.username {
		return ErrSameAccount
	}

	first, second := from, to
	if second.username < first.username {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}
	if amount.GreaterThan(from.balance) {
		return ErrInsufficientFunds
	}

	from.balance = from.balance.Sub(amount)
	to.balance = to.balance.Add(amount)
	from.history = append(from.history, fmt.Sprintf("Transfer to %s: -%s", to.username, amount))
	to.history = append(to.history, fmt.Sprintf("Transfer from %s: +%s", from.username, amount))
	return nil
}
