package accounts

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CodeVerifier is the delegation contract for the external verification
// provider. The provider owns the (email, code) challenge and its expiry;
// the engine only requests sends and submits checks.
type CodeVerifier interface {
	// Send asks the provider to deliver a fresh verification code to email.
	Send(ctx context.Context, email string) error
	// Check submits a code for email. A false return means the provider
	// rejected the code (wrong or expired); an error means the provider
	// could not be reached.
	Check(ctx context.Context, email, code string) (bool, error)
}

// ResetNotifier dispatches password reset notifications. Delivery is
// best-effort from the engine's perspective.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, accountID, token string) error
}

// AccountOperations is the surface the boundary adapter consumes.
type AccountOperations interface {
	Register(ctx context.Context, req RegisterRequest) Result
	ConfirmEmail(ctx context.Context, email, code string) Result
	ValidateLogin(ctx context.Context, email, password string) TypedResult[ValidatedSession]
	ForgotPassword(ctx context.Context, email string) Result
	ResetPassword(ctx context.Context, accountID, token, newPassword string) Result
	AccountIDByEmail(ctx context.Context, email string) TypedResult[string]
}

// ValidatedSession is the payload returned by a successful login
// validation: the identity adjacent services build sessions from.
type ValidatedSession struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
