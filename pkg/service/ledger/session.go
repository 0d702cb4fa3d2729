package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/minibank/ledger/pkg/account"
)

// Session is an ephemeral binding between an authenticated caller and one
// account. It is created by Login, destroyed by Logout, and never persisted.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	account *account.Account
}

// Username returns the username of the account this session is bound to.
func (s *Session) Username() string {
	return s.account.Username()
}
