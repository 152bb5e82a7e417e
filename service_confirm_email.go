package accounts

import (
	"context"
	"net/http"

	"github.com/goliatone/go-repository-bun"
)

// ConfirmEmail submits a provider issued code for the account and, when
// the provider accepts it, activates the account.
//
// Confirming an already active account with a valid code is a no-op
// success; an invalid code is rejected regardless of current state.
func (s *Service) ConfirmEmail(ctx context.Context, email, code string) (res Result) {
	defer s.recoverOp("confirm_email", &res)

	req := ConfirmEmailRequest{Email: email, Code: code}
	if err := req.Validate(); err != nil {
		return NewFailure(err.Error(), http.StatusBadRequest)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return NewFailure(MsgAccountNotFound, http.StatusNotFound)
		}
		s.logger.Error("confirm email lookup %s: %v", email, err)
		return NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}

	ok, err := s.verifier.Check(ctx, email, code)
	if err != nil {
		s.logger.Error("verification provider check failed for %s: %v", email, err)
		return NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}

	if !ok {
		return ResultFromError(ErrVerificationRejected)
	}

	if account.IsActive() {
		return NewSuccess(http.StatusOK)
	}

	if err := TransitionStatus(account, StatusActive, s.now); err != nil {
		s.logger.Error("confirm email transition %s: %v", email, err)
		return ResultFromError(err)
	}

	if _, err := s.repo.Accounts().MarkEmailVerified(ctx, account); err != nil {
		s.logger.Error("confirm email persist %s: %v", email, err)
		return NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}

	return NewSuccess(http.StatusOK)
}
