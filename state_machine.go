package accounts

import (
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeInvalidTransition = "INVALID_ACCOUNT_STATE_TRANSITION"

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid account state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// accountTransitions is the lifecycle graph. Self transitions are always
// allowed so re-confirming an active account stays a no-op.
var accountTransitions = map[AccountStatus][]AccountStatus{
	StatusPendingVerification: {StatusActive},
	StatusActive:              {},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to AccountStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range accountTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionStatus moves account to the target status, stamping the
// verification timestamp on activation. The caller persists the record.
func TransitionStatus(account *Account, to AccountStatus, clock func() time.Time) error {
	if account == nil {
		return goerrors.New("account is required", goerrors.CategoryBadInput)
	}

	if clock == nil {
		clock = time.Now
	}

	from := CurrentStatus(account)
	if !CanTransition(from, to) {
		return goerrors.New("invalid account state transition", goerrors.CategoryValidation).
			WithTextCode(textCodeInvalidTransition).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{
				"from": from,
				"to":   to,
			})
	}

	if from == to {
		return nil
	}

	account.Status = to
	if to == StatusActive {
		account.EmailVerified = true
		now := clock()
		account.VerifiedAt = &now
	}

	return nil
}

// CurrentStatus normalizes a missing status to pending verification.
func CurrentStatus(account *Account) AccountStatus {
	if account == nil || account.Status == "" {
		return StatusPendingVerification
	}
	return account.Status
}
