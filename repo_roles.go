package accounts

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles manages role records and account membership. Ensure is
// idempotent so registration can lazily create the default role.
type Roles interface {
	repository.Repository[*Role]

	Ensure(ctx context.Context, name string) (*Role, error)
	EnsureTx(ctx context.Context, tx bun.IDB, name string) (*Role, error)

	Assign(ctx context.Context, accountID, roleID uuid.UUID) error
	AssignTx(ctx context.Context, tx bun.IDB, accountID, roleID uuid.UUID) error

	NamesFor(ctx context.Context, accountID uuid.UUID) ([]string, error)
	NamesForTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) ([]string, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var (
	_ Roles                        = (*roles)(nil)
	_ repository.Repository[*Role] = (*roles)(nil)
)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (r *roles) Ensure(ctx context.Context, name string) (*Role, error) {
	return r.EnsureTx(ctx, r.db, name)
}

// EnsureTx returns the role named name, creating it when absent. A
// concurrent create resolves through the unique index and a re-read.
func (r *roles) EnsureTx(ctx context.Context, tx bun.IDB, name string) (*Role, error) {
	record := &Role{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx)

	if err == nil {
		return record, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	created := &Role{ID: uuid.New(), Name: name}
	if _, err := tx.NewInsert().
		Model(created).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, err
	}

	record = &Role{}
	if err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.name = ?", name).
		Limit(1).
		Scan(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *roles) Assign(ctx context.Context, accountID, roleID uuid.UUID) error {
	return r.AssignTx(ctx, r.db, accountID, roleID)
}

func (r *roles) AssignTx(ctx context.Context, tx bun.IDB, accountID, roleID uuid.UUID) error {
	membership := &AccountRole{
		AccountID: accountID,
		RoleID:    roleID,
	}

	_, err := tx.NewInsert().
		Model(membership).
		On("CONFLICT (account_id, role_id) DO NOTHING").
		Exec(ctx)

	return err
}

func (r *roles) NamesFor(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	return r.NamesForTx(ctx, r.db, accountID)
}

func (r *roles) NamesForTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) ([]string, error) {
	var names []string
	err := tx.NewSelect().
		Model((*Role)(nil)).
		Column("rol.name").
		Join(`JOIN account_roles AS acr ON acr.role_id = rol.id`).
		Where("acr.account_id = ?", accountID).
		OrderExpr("rol.name ASC").
		Scan(ctx, &names)

	if err != nil {
		return nil, err
	}

	return names, nil
}
