// Package common provides the response envelope, problem-details rendering,
// and request binding shared by all web API handlers. Mapping ledger error
// kinds to HTTP status codes happens here and nowhere else; the core never
// produces display strings.
package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/minibank/ledger/pkg/account"
	"github.com/minibank/ledger/pkg/money"
	"github.com/minibank/ledger/pkg/registry"
	ledgersvc "github.com/minibank/ledger/pkg/service/ledger"
)

// Response is the standard envelope for success cases.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessResponseJSON writes a success envelope with the given status code.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ProblemDetailsJSON writes a problem+json response. Optional args may carry
// a string detail and an int status; when absent, the status is derived from
// the error and the detail from its message.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := 0
	detail := ""
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			status = v
		case string:
			detail = v
		}
	}
	if status == 0 {
		status = ErrorToStatusCode(err)
	}
	if detail == "" && err != nil {
		detail = err.Error()
	}

	c.Set(fiber.HeaderContentType, "application/problem+json")
	return c.Status(status).JSON(ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.OriginalURL(),
	})
}

// ErrorToStatusCode maps ledger error kinds to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, ledgersvc.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, registry.ErrDuplicateUsername):
		return fiber.StatusConflict
	case errors.Is(err, registry.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, ledgersvc.ErrSessionInvalid):
		return fiber.StatusUnauthorized
	case errors.Is(err, ledgersvc.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, money.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrAmountNotPositive):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrInsufficientFunds):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ledgersvc.ErrInvalidRecipient):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it.
// On failure it writes the error response and returns a nil struct.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ProblemDetailsJSON(c, "Invalid request body", err, fiber.StatusBadRequest)
	}
	if err := validator.New().Struct(input); err != nil {
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}
