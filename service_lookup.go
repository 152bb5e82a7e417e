package accounts

import (
	"context"
	"net/http"

	"github.com/goliatone/go-repository-bun"
)

// AccountIDByEmail resolves an email to its account identifier. Pure
// lookup for adjacent services; no credential surface, no state change.
func (s *Service) AccountIDByEmail(ctx context.Context, email string) (res TypedResult[string]) {
	defer recoverTypedOp(s.logger, "account_id_by_email", &res)

	req := ForgotPasswordRequest{Email: email}
	if err := req.Validate(); err != nil {
		return NewTypedFailure[string](err.Error(), http.StatusBadRequest)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return NewTypedFailure[string](MsgAccountNotFound, http.StatusNotFound)
		}
		s.logger.Error("account id lookup %s: %v", email, err)
		return NewTypedFailure[string](MsgUnexpectedError, http.StatusInternalServerError)
	}

	return NewTypedSuccess(account.ID.String(), http.StatusOK)
}
