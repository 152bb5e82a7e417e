package accounts_test

import (
	"errors"
	"net/http"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestResultFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "nil error is success",
			err:        nil,
			wantStatus: http.StatusOK,
		},
		{
			name:       "validation maps to 400",
			err:        goerrors.New("bad payload", goerrors.CategoryValidation),
			wantStatus: http.StatusBadRequest,
			wantError:  "bad payload",
		},
		{
			name:       "conflict maps to 409",
			err:        accounts.ErrEmailTaken,
			wantStatus: http.StatusConflict,
			wantError:  accounts.MsgEmailAlreadyInUse,
		},
		{
			name:       "not found maps to 404",
			err:        accounts.ErrAccountNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  accounts.MsgAccountNotFound,
		},
		{
			name:       "auth maps to 401",
			err:        accounts.ErrMismatchedHashAndPassword,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "auth with forbidden code maps to 403",
			err:        accounts.ErrEmailNotConfirmed,
			wantStatus: http.StatusForbidden,
			wantError:  accounts.MsgEmailNotConfirmed,
		},
		{
			name:       "internal hides detail",
			err:        goerrors.New("db exploded", goerrors.CategoryInternal),
			wantStatus: http.StatusInternalServerError,
			wantError:  accounts.MsgUnexpectedError,
		},
		{
			name:       "plain error becomes generic 500",
			err:        errors.New("raw failure"),
			wantStatus: http.StatusInternalServerError,
			wantError:  accounts.MsgUnexpectedError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := accounts.ResultFromError(tt.err)

			assert.Equal(t, tt.wantStatus, res.StatusCode)

			if tt.err == nil {
				assert.True(t, res.Success)
				assert.Empty(t, res.Error)
				return
			}

			assert.False(t, res.Success)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, res.Error)
			} else {
				assert.NotEmpty(t, res.Error)
			}
		})
	}
}

func TestNewFailureDefaults(t *testing.T) {
	res := accounts.NewFailure("", 0)
	assert.False(t, res.Success)
	assert.Equal(t, accounts.MsgUnexpectedError, res.Error)
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestNewTypedSuccessCarriesPayload(t *testing.T) {
	res := accounts.NewTypedSuccess("some-id", http.StatusOK)
	assert.True(t, res.Success)
	assert.Equal(t, "some-id", res.Payload)
	assert.Empty(t, res.Error)
}
