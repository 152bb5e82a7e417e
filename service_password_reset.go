package accounts

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ForgotPassword issues a single-use reset token and dispatches it
// through the notifier. Unknown emails get the same generic success as
// known ones so the endpoint cannot be used to enumerate accounts, and
// delivery failures are logged rather than surfaced.
func (s *Service) ForgotPassword(ctx context.Context, email string) (res Result) {
	defer s.recoverOp("forgot_password", &res)

	req := ForgotPasswordRequest{Email: email}
	if err := req.Validate(); err != nil {
		return NewFailure(err.Error(), http.StatusBadRequest)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Info("password reset requested for unknown email %s", email)
			return NewSuccess(http.StatusOK)
		}
		s.logger.Error("forgot password lookup %s: %v", email, err)
		return NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}

	reset := &PasswordReset{}

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		reset.AccountID = &account.ID
		reset.Email = account.Email
		reset.Status = ResetRequestedStatus

		created, err := s.repo.PasswordResets().CreateTx(ctx, tx, reset)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset record")
		}

		reset = created
		return nil
	})

	if err != nil {
		s.logger.Error("forgot password %s: %v", email, err)
		return ResultFromError(err)
	}

	if err := s.notifier.SendPasswordReset(ctx, account.Email, account.ID.String(), reset.ID.String()); err != nil {
		// delivery is best-effort; the token can be re-requested
		s.logger.Warn("reset notification failed for %s: %v", account.Email, err)
	}

	return NewSuccess(http.StatusOK)
}

// ResetPassword consumes a reset token and replaces the credential
// atomically. Tokens are single use: consuming one marks the record
// changed, and a replay fails with the same invalid-or-expired message
// as a missing or foreign token.
func (s *Service) ResetPassword(ctx context.Context, accountID, token, newPassword string) (res Result) {
	defer s.recoverOp("reset_password", &res)

	req := ResetPasswordRequest{UserID: accountID, Token: token, NewPassword: newPassword}
	if err := req.Validate(); err != nil {
		return NewFailure(err.Error(), http.StatusBadRequest)
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return NewFailure(MsgAccountNotFound, http.StatusNotFound)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account, err := s.repo.Accounts().GetByID(ctx, id.String())
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password reset")
		}

		reset, err := s.repo.PasswordResets().GetByID(ctx, token)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrResetTokenInvalid
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not retrieve password reset request")
		}

		if reset.AccountID == nil || *reset.AccountID != account.ID {
			return ErrResetTokenInvalid
		}

		if reset.Status != ResetRequestedStatus {
			return ErrResetTokenConsumed
		}

		if reset.CreatedAt == nil {
			return goerrors.New("password reset record is missing creation date", goerrors.CategoryInternal)
		}

		expired, err := IsOutsideThresholdPeriodAt(*reset.CreatedAt, s.resetWindow, s.now())
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token expiration period")
		}

		if expired {
			return ErrResetTokenInvalid
		}

		passwordHash, err := HashPassword(newPassword)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid new password provided")
		}

		// consume first: the guarded update is the single-use gate, and a
		// zero-row result means a concurrent reset already claimed the token
		if err := s.repo.PasswordResets().ConsumeTx(ctx, tx, reset.ID, s.now()); err != nil {
			if repository.IsRecordNotFound(err) {
				return ErrResetTokenConsumed
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update password reset status")
		}

		if err := s.repo.Accounts().ResetPasswordTx(ctx, tx, account.ID, passwordHash); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update account password")
		}

		return nil
	})

	if err != nil {
		s.logger.Error("reset password %s: %v", accountID, err)
		return ResultFromError(err)
	}

	return NewSuccess(http.StatusOK)
}
