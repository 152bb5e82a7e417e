package accounts

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// Register creates a new account in pending verification state, lazily
// ensuring the default role, and then asks the provider to send a
// verification code.
//
// The account commits before the verification send is attempted
// (commit-then-notify): a provider outage costs a code delivery, never
// the account. Confirmation can always be retried later.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (res Result) {
	defer s.recoverOp("register", &res)

	if err := req.Validate(); err != nil {
		return NewFailure(err.Error(), http.StatusBadRequest)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	account := &Account{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// pre-check is an optimization; the unique index is the guarantee
		if _, err := s.repo.Accounts().GetByEmailTx(ctx, tx, req.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing account")
		}

		hash, err := HashPassword(req.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Email = req.Email
		account.PasswordHash = hash
		account.Status = StatusPendingVerification

		if account, err = s.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			if IsUniqueViolation(err) {
				// a concurrent registration lost the race to the unique index
				return goerrors.Wrap(err, goerrors.CategoryConflict, MsgEmailAlreadyInUse)
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create account")
		}

		role, err := s.repo.Roles().EnsureTx(ctx, tx, DefaultRoleName)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to ensure default role")
		}

		if err := s.repo.Roles().AssignTx(ctx, tx, account.ID, role.ID); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to assign default role")
		}

		return nil
	})

	if err != nil {
		s.logger.Error("register %s: %v", req.Email, err)
		return ResultFromError(err)
	}

	if err := s.verifier.Send(ctx, account.Email); err != nil {
		// best-effort: the account is committed, the code can be re-requested
		s.logger.Warn("verification send failed for %s: %v", account.Email, err)
	}

	return NewSuccess(http.StatusCreated)
}
