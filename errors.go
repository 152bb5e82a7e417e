package accounts

import (
	goerrors "github.com/goliatone/go-errors"
)

// Messages that cross the boundary. Login failures share one message so
// the response never distinguishes a missing account from a bad password.
const (
	MsgInvalidCredentials  = "Invalid credentials"
	MsgEmailNotConfirmed   = "Email is not confirmed"
	MsgEmailAlreadyInUse   = "Email is already registered."
	MsgAccountNotFound     = "Account not found"
	MsgInvalidOrExpired    = "Invalid or expired token"
	MsgInvalidCode         = "Invalid or expired verification code"
	MsgUnexpectedError     = "Unexpected error"
	TextCodeTokenExpired   = "TOKEN_EXPIRED"
	TextCodeTokenConsumed  = "TOKEN_ALREADY_USED"
	TextCodeEmailConflict  = "EMAIL_TAKEN"
	TextCodeNotVerified    = "EMAIL_NOT_VERIFIED"
	TextCodeBadCredentials = "BAD_CREDENTIALS"
)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation)

// ErrMismatchedHashAndPassword is the stable credential mismatch error.
var ErrMismatchedHashAndPassword = goerrors.New("identity auth error: mismatched hash and password", goerrors.CategoryAuth).
	WithTextCode(TextCodeBadCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotFound is returned when an account lookup misses.
var ErrAccountNotFound = goerrors.New(MsgAccountNotFound, goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrEmailTaken is returned when registration hits an existing email.
var ErrEmailTaken = goerrors.New(MsgEmailAlreadyInUse, goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailConflict).
	WithCode(goerrors.CodeConflict)

// ErrEmailNotConfirmed blocks logins for unverified accounts.
var ErrEmailNotConfirmed = goerrors.New(MsgEmailNotConfirmed, goerrors.CategoryAuth).
	WithTextCode(TextCodeNotVerified).
	WithCode(goerrors.CodeForbidden)

// ErrResetTokenInvalid covers missing, mismatched, consumed, and expired
// reset tokens. Callers get one message for all of them.
var ErrResetTokenInvalid = goerrors.New(MsgInvalidOrExpired, goerrors.CategoryValidation).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrResetTokenConsumed is the replay variant of ErrResetTokenInvalid:
// same message on the wire, distinct text code in the logs.
var ErrResetTokenConsumed = goerrors.New(MsgInvalidOrExpired, goerrors.CategoryValidation).
	WithTextCode(TextCodeTokenConsumed).
	WithCode(goerrors.CodeBadRequest)

// ErrVerificationRejected is returned when the provider rejects a code.
var ErrVerificationRejected = goerrors.New(MsgInvalidCode, goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)
