package ledger

// RegisterRequest carries credentials for creating a new account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest carries credentials for opening a session.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AmountRequest carries the amount text for deposits and withdrawals. The
// amount stays a string end to end; the core parses and validates it.
type AmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// TransferRequest carries the recipient and amount text for a transfer.
type TransferRequest struct {
	To     string `json:"to" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}
