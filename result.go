package accounts

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Result is the outcome envelope every engine operation returns. A failed
// Result always carries a non-empty Error and a status code >= 400; a
// successful one carries a status code < 400 and no error text.
type Result struct {
	Success    bool   `json:"success"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

// TypedResult is a Result carrying an operation payload. The payload is
// only meaningful when Success is true.
type TypedResult[T any] struct {
	Result
	Payload T `json:"payload,omitempty"`
}

// NewSuccess builds a success envelope with the given status code.
func NewSuccess(statusCode int) Result {
	return Result{Success: true, StatusCode: statusCode}
}

// NewFailure builds a failure envelope.
func NewFailure(message string, statusCode int) Result {
	if message == "" {
		message = MsgUnexpectedError
	}
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return Result{Error: message, StatusCode: statusCode}
}

// NewTypedSuccess builds a success envelope with a payload.
func NewTypedSuccess[T any](payload T, statusCode int) TypedResult[T] {
	return TypedResult[T]{Result: NewSuccess(statusCode), Payload: payload}
}

// NewTypedFailure builds a typed failure envelope with a zero payload.
func NewTypedFailure[T any](message string, statusCode int) TypedResult[T] {
	return TypedResult[T]{Result: NewFailure(message, statusCode)}
}

// ResultFromError converts an engine error into a failure envelope. Rich
// errors map through their category; anything else becomes a generic 500
// so collaborator faults never leak internal detail to the caller.
func ResultFromError(err error) Result {
	if err == nil {
		return NewSuccess(http.StatusOK)
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}

	status := statusFromCategory(richErr)
	message := richErr.Message
	if status == http.StatusInternalServerError {
		// internal detail stays in logs, not in the response
		message = MsgUnexpectedError
	}

	return NewFailure(message, status)
}

func statusFromCategory(err *goerrors.Error) int {
	switch err.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return http.StatusBadRequest
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		if err.Code == goerrors.CodeForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
