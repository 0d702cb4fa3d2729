// Package ledger exposes the ledger service over HTTP. Handlers translate
// requests into service calls and error kinds into status codes; no business
// validation lives here.
package ledger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/minibank/ledger/pkg/config"
	"github.com/minibank/ledger/pkg/middleware"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
	"github.com/minibank/ledger/webapi/common"
)

// Routes registers the ledger endpoints:
//   - POST /register                : create a new account.
//   - POST /login                   : open a session, returns a bearer token.
//   - POST /logout                  : invalidate the session.
//   - POST /account/deposit         : credit the session's account.
//   - POST /account/withdraw        : debit the session's account.
//   - POST /account/transfer        : move funds to another account.
//   - GET  /account/balance         : the session's current balance.
//   - GET  /account/history         : the session's transaction log.
//   - GET  /accounts/balances       : all balances (admin only).
func Routes(app *fiber.App, svc *ledgersvc.Service, cfg *config.App) {
	app.Post("/register", Register(svc))
	app.Post("/login", Login(svc, cfg.Jwt))
	app.Post("/logout", middleware.JwtProtected(cfg.Jwt), Logout(svc))
	app.Post("/account/deposit", middleware.JwtProtected(cfg.Jwt), Deposit(svc))
	app.Post("/account/withdraw", middleware.JwtProtected(cfg.Jwt), Withdraw(svc))
	app.Post("/account/transfer", middleware.JwtProtected(cfg.Jwt), Transfer(svc))
	app.Get("/account/balance", middleware.JwtProtected(cfg.Jwt), Balance(svc))
	app.Get("/account/history", middleware.JwtProtected(cfg.Jwt), History(svc))
	app.Get("/accounts/balances", middleware.JwtProtected(cfg.Jwt), ListBalances(svc))
}

// Register handles account creation.
func Register(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterRequest](c)
		if input == nil {
			return err
		}
		if err := svc.Register(input.Username, input.Password); err != nil {
			return common.ProblemDetailsJSON(c, "Registration failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Registration successful", nil)
	}
}

// Login authenticates the credentials and returns a bearer token whose
// session_id claim names the server-side session.
func Login(svc *ledgersvc.Service, cfg config.Jwt) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginRequest](c)
		if input == nil {
			return err
		}
		sess, err := svc.Login(input.Username, input.Password)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid username or password", err)
		}
		token, err := generateToken(sess, cfg)
		if err != nil {
			log.Errorf("failed to sign token: %v", err)
			return common.ProblemDetailsJSON(c, "Internal Server Error", err, fiber.StatusInternalServerError)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Login successful", fiber.Map{"token": token})
	}
}

// Logout invalidates the session named by the token.
func Logout(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		svc.Logout(sess)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Logout successful", nil)
	}
}

// Deposit credits the session's account and returns the new balance.
func Deposit(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		balance, err := svc.Deposit(sess, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Deposit failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit successful",
			fiber.Map{"balance": balance})
	}
}

// Withdraw debits the session's account and returns the new balance.
func Withdraw(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[AmountRequest](c)
		if input == nil {
			return err
		}
		balance, err := svc.Withdraw(sess, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Withdrawal failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Withdrawal successful",
			fiber.Map{"balance": balance})
	}
}

// Transfer moves funds to another account and returns the sender's new balance.
func Transfer(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		input, err := common.BindAndValidate[TransferRequest](c)
		if input == nil {
			return err
		}
		balance, err := svc.Transfer(sess, input.To, input.Amount)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Transfer failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transfer successful",
			fiber.Map{"balance": balance})
	}
}

// Balance returns the session's current balance.
func Balance(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		balance, err := svc.Balance(sess)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Balance unavailable", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Current balance",
			fiber.Map{"balance": balance})
	}
}

// History returns the session's transaction log, oldest first.
func History(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		history, err := svc.History(sess)
		if err != nil {
			return common.ProblemDetailsJSON(c, "History unavailable", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction history",
			fiber.Map{"history": history})
	}
}

// ListBalances returns every account's balance. Admin only.
func ListBalances(svc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, svc)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		balances, err := svc.ListBalances(sess)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Balance listing denied", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "All balances",
			fiber.Map{"balances": balances})
	}
}

// generateToken signs a token carrying the session ID and username.
func generateToken(sess *ledgersvc.Session, cfg config.Jwt) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["session_id"] = sess.ID.String()
	claims["username"] = sess.Username()
	claims["exp"] = time.Now().Add(cfg.Expiry).Unix()
	return token.SignedString([]byte(cfg.Secret))
}

// sessionFromCtx resolves the verified token in the request context to its
// live server-side session. A logged-out session fails here even if the
// token itself is still valid.
func sessionFromCtx(c *fiber.Ctx, svc *ledgersvc.Service) (*ledgersvc.Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ledgersvc.ErrSessionInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ledgersvc.ErrSessionInvalid
	}
	raw, ok := claims["session_id"].(string)
	if !ok {
		return nil, ledgersvc.ErrSessionInvalid
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, ledgersvc.ErrSessionInvalid
	}
	sess, ok := svc.Session(id)
	if !ok {
		return nil, ledgersvc.ErrSessionInvalid
	}
	return sess, nil
}
