package accounts

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ConsumePasswordResetSQL flips a live token to changed in a single
// guarded statement. The status predicate is what keeps tokens single
// use: of two concurrent consumers only one update matches a row, the
// other sees zero rows back.
var ConsumePasswordResetSQL = `UPDATE "password_reset" AS "pwdr"
SET
	"status" = 'changed',
	"reseted_at" = ?,
	"updated_at" = ?
WHERE
	"pwdr"."deleted_at" IS NULL
AND (
	"pwdr"."id" = ?
)
AND (
	"pwdr"."status" = 'requested'
) RETURNING *;`

type PasswordResets interface {
	repository.Repository[*PasswordReset]

	Consume(ctx context.Context, id uuid.UUID, at time.Time) error
	ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error
}

type passwordResets struct {
	repository.Repository[*PasswordReset]
	db *bun.DB
}

var (
	_ PasswordResets                        = (*passwordResets)(nil)
	_ repository.Repository[*PasswordReset] = (*passwordResets)(nil)
)

func NewPasswordResetsRepository(db *bun.DB) PasswordResets {
	repo := repository.NewRepository[*PasswordReset](db, repository.ModelHandlers[*PasswordReset]{
		NewRecord: func() *PasswordReset {
			return &PasswordReset{}
		},
		GetID: func(record *PasswordReset) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *PasswordReset, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &passwordResets{
		Repository: repo,
		db:         db,
	}
}

func (p *passwordResets) Consume(ctx context.Context, id uuid.UUID, at time.Time) error {
	return p.ConsumeTx(ctx, p.db, id, at)
}

// ConsumeTx marks the token changed if and only if it is still in the
// requested state. A token already consumed, expired, or missing comes
// back as the repository not-found error so callers can branch on it.
func (p *passwordResets) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error {
	res, err := p.Repository.RawTx(ctx, tx, ConsumePasswordResetSQL, at, at, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}
