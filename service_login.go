package accounts

import (
	"context"
	"net/http"

	"github.com/goliatone/go-repository-bun"
)

// ValidateLogin checks credentials and returns the validated session
// identity. The 401 message is identical for unknown accounts and wrong
// passwords, and a dummy hash comparison runs when the account is absent,
// so neither the message nor the timing leaks account existence. The
// verified-email check runs only after credentials succeed for the same
// reason.
func (s *Service) ValidateLogin(ctx context.Context, email, password string) (res TypedResult[ValidatedSession]) {
	defer recoverTypedOp(s.logger, "validate_login", &res)

	req := LoginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		// malformed credentials are just bad credentials to the caller
		return NewTypedFailure[ValidatedSession](MsgInvalidCredentials, http.StatusUnauthorized)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account, err := s.repo.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			CompareAgainstDummyHash(password)
			return NewTypedFailure[ValidatedSession](MsgInvalidCredentials, http.StatusUnauthorized)
		}
		s.logger.Error("login lookup %s: %v", email, err)
		return NewTypedFailure[ValidatedSession](MsgUnexpectedError, http.StatusInternalServerError)
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		return NewTypedFailure[ValidatedSession](MsgInvalidCredentials, http.StatusUnauthorized)
	}

	if !account.IsActive() {
		return TypedResult[ValidatedSession]{Result: ResultFromError(ErrEmailNotConfirmed)}
	}

	roleNames, err := s.repo.Roles().NamesFor(ctx, account.ID)
	if err != nil {
		s.logger.Error("login roles %s: %v", email, err)
		return NewTypedFailure[ValidatedSession](MsgUnexpectedError, http.StatusInternalServerError)
	}

	session := ValidatedSession{
		ID:    account.ID.String(),
		Email: account.Email,
		Roles: roleNames,
	}

	return NewTypedSuccess(session, http.StatusOK)
}
