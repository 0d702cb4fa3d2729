package ledger_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/minibank/ledger/pkg/account"
	"github.com/minibank/ledger/pkg/money"
	"github.com/minibank/ledger/pkg/registry"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *ledgersvc.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return ledgersvc.New(registry.New(logger), logger)
}

func login(t *testing.T, svc *ledgersvc.Service, username, password string) *ledgersvc.Session {
	t.Helper()
	sess, err := svc.Login(username, password)
	require.NoError(t, err)
	return sess
}

func TestRegister(t *testing.T) {
	t.Parallel()
	svc := newService()

	require.NoError(t, svc.Register("alice", "pw"))

	t.Run("empty username or password is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.Register("", "pw"), ledgersvc.ErrInvalidInput)
		assert.ErrorIs(t, svc.Register("bob", ""), ledgersvc.ErrInvalidInput)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.Register("alice", "other"), registry.ErrDuplicateUsername)
	})
}

func TestLoginAndLogout(t *testing.T) {
	t.Parallel()
	svc := newService()
	require.NoError(t, svc.Register("bob", "x"))

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := svc.Login("bob", "wrong")
		assert.ErrorIs(t, err, registry.ErrInvalidCredentials)
	})

	t.Run("login binds the session to the account", func(t *testing.T) {
		sess := login(t, svc, "bob", "x")
		assert.Equal(t, "bob", sess.Username())

		got, ok := svc.Session(sess.ID)
		require.True(t, ok)
		assert.Same(t, sess, got)
	})

	t.Run("logged-out session permits nothing", func(t *testing.T) {
		sess := login(t, svc, "bob", "x")
		svc.Logout(sess)

		_, err := svc.Deposit(sess, "10")
		assert.ErrorIs(t, err, ledgersvc.ErrSessionInvalid)
		_, err = svc.History(sess)
		assert.ErrorIs(t, err, ledgersvc.ErrSessionInvalid)
		_, ok := svc.Session(sess.ID)
		assert.False(t, ok)

		// Logout is idempotent.
		svc.Logout(sess)
	})

	t.Run("nil session permits nothing", func(t *testing.T) {
		_, err := svc.Withdraw(nil, "10")
		assert.ErrorIs(t, err, ledgersvc.ErrSessionInvalid)
	})
}

// Fresh system: admin logs in with the seeded balance, deposits 500.
func TestAdminDepositScenario(t *testing.T) {
	t.Parallel()
	svc := newService()
	sess := login(t, svc, "admin", "admin")

	balance, err := svc.Balance(sess)
	require.NoError(t, err)
	assert.Equal(t, "1000.00", balance.Fixed())

	history, err := svc.History(sess)
	require.NoError(t, err)
	require.Len(t, history, 1)

	balance, err = svc.Deposit(sess, "500")
	require.NoError(t, err)
	assert.Equal(t, "1500.00", balance.Fixed())

	history, err = svc.History(sess)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Deposit: +500.0", history[1])
}

// A fresh account has nothing to withdraw.
func TestWithdrawFromEmptyAccount(t *testing.T) {
	t.Parallel()
	svc := newService()
	require.NoError(t, svc.Register("alice", "pw"))
	sess := login(t, svc, "alice", "pw")

	balance, err := svc.Balance(sess)
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.Fixed())

	_, err = svc.Withdraw(sess, "10")
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)

	balance, err = svc.Balance(sess)
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.Fixed())
}

func TestTransferScenario(t *testing.T) {
	t.Parallel()
	svc := newService()
	require.NoError(t, svc.Register("alice", "pw"))

	adminSess := login(t, svc, "admin", "admin")
	_, err := svc.Deposit(adminSess, "500") // 1000 -> 1500
	require.NoError(t, err)

	balance, err := svc.Transfer(adminSess, "alice", "200")
	require.NoError(t, err)
	assert.Equal(t, "1300.00", balance.Fixed())

	adminHistory, err := svc.History(adminSess)
	require.NoError(t, err)
	assert.Contains(t, adminHistory, "Transfer to alice: -200.0")

	aliceSess := login(t, svc, "alice", "pw")
	aliceBalance, err := svc.Balance(aliceSess)
	require.NoError(t, err)
	assert.Equal(t, "200.00", aliceBalance.Fixed())

	aliceHistory, err := svc.History(aliceSess)
	require.NoError(t, err)
	assert.Equal(t, []string{"Transfer from admin: +200.0"}, aliceHistory)
}

func TestTransferRejections(t *testing.T) {
	t.Parallel()
	svc := newService()
	require.NoError(t, svc.Register("alice", "pw"))
	sess := login(t, svc, "alice", "pw")
	_, err := svc.Deposit(sess, "100")
	require.NoError(t, err)

	assertUntouched := func(t *testing.T) {
		t.Helper()
		balance, err := svc.Balance(sess)
		require.NoError(t, err)
		assert.Equal(t, "100.00", balance.Fixed())
		history, err := svc.History(sess)
		require.NoError(t, err)
		assert.Len(t, history, 1)
	}

	t.Run("self-transfer", func(t *testing.T) {
		_, err := svc.Transfer(sess, "alice", "5")
		assert.ErrorIs(t, err, ledgersvc.ErrInvalidRecipient)
		assertUntouched(t)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		_, err := svc.Transfer(sess, "ghost", "5")
		assert.ErrorIs(t, err, ledgersvc.ErrInvalidRecipient)
		assertUntouched(t)
	})

	t.Run("unparsable amount", func(t *testing.T) {
		_, err := svc.Transfer(sess, "admin", "lots")
		assert.ErrorIs(t, err, money.ErrInvalidAmount)
		assertUntouched(t)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := svc.Transfer(sess, "admin", "5000")
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		assertUntouched(t)
	})
}

func TestAmountValidation(t *testing.T) {
	t.Parallel()
	svc := newService()
	sess := login(t, svc, "admin", "admin")

	for _, amt := range []string{"abc", "", "-5", "0"} {
		_, err := svc.Deposit(sess, amt)
		assert.ErrorIs(t, err, money.ErrInvalidAmount, "deposit %q", amt)
		_, err = svc.Withdraw(sess, amt)
		assert.ErrorIs(t, err, money.ErrInvalidAmount, "withdraw %q", amt)
	}

	history, err := svc.History(sess)
	require.NoError(t, err)
	assert.Len(t, history, 1, "rejected amounts must not be logged")
}

func TestListBalances(t *testing.T) {
	t.Parallel()
	svc := newService()
	require.NoError(t, svc.Register("alice", "pw"))

	t.Run("denied for non-admin", func(t *testing.T) {
		sess := login(t, svc, "alice", "pw")
		_, err := svc.ListBalances(sess)
		assert.ErrorIs(t, err, ledgersvc.ErrUnauthorized)
	})

	t.Run("admin sees every account", func(t *testing.T) {
		sess := login(t, svc, "admin", "admin")
		balances, err := svc.ListBalances(sess)
		require.NoError(t, err)
		require.Len(t, balances, 2)
		assert.Equal(t, "1000.00", balances["admin"].Fixed())
		assert.Equal(t, "0.00", balances["alice"].Fixed())
	})
}
