package accounts_test

import (
	"context"
	"database/sql"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockRepositoryManager implements accounts.RepositoryManager. RunInTx
// executes the callback with a zero transaction so engine tests can
// drive the repositories directly.
type MockRepositoryManager struct {
	mock.Mock
	MockAccounts       *MockAccounts
	MockRoles          *MockRoles
	MockPasswordResets *MockPasswordResets
	TxErr              error
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		MockAccounts:       &MockAccounts{},
		MockRoles:          &MockRoles{},
		MockPasswordResets: &MockPasswordResets{},
	}
}

func (m *MockRepositoryManager) Validate() error {
	return nil
}

func (m *MockRepositoryManager) MustValidate() {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	if m.TxErr != nil {
		return m.TxErr
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return f(ctx, bun.Tx{})
	}
}

func (m *MockRepositoryManager) Accounts() accounts.Accounts {
	return m.MockAccounts
}

func (m *MockRepositoryManager) Roles() accounts.Roles {
	return m.MockRoles
}

func (m *MockRepositoryManager) PasswordResets() accounts.PasswordResets {
	return m.MockPasswordResets
}

func (m *MockRepositoryManager) AssertExpectations(t mock.TestingT) bool {
	ok := m.MockAccounts.Mock.AssertExpectations(t)
	ok = m.MockRoles.Mock.AssertExpectations(t) && ok
	ok = m.MockPasswordResets.Mock.AssertExpectations(t) && ok
	return ok
}

// MockAccounts covers the accounts.Accounts methods the engine
// exercises; the embedded interface stands in for the rest.
type MockAccounts struct {
	mock.Mock
	accounts.Accounts
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*accounts.Account, error) {
	args := m.Called(ctx, tx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account, criteria ...repository.InsertCriteria) (*accounts.Account, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) MarkEmailVerified(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccounts) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

// MockRoles covers the accounts.Roles engine surface.
type MockRoles struct {
	mock.Mock
	accounts.Roles
}

func (m *MockRoles) EnsureTx(ctx context.Context, tx bun.IDB, name string) (*accounts.Role, error) {
	args := m.Called(ctx, tx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Role), args.Error(1)
}

func (m *MockRoles) AssignTx(ctx context.Context, tx bun.IDB, accountID, roleID uuid.UUID) error {
	args := m.Called(ctx, tx, accountID, roleID)
	return args.Error(0)
}

func (m *MockRoles) NamesFor(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockPasswordResets covers the password reset repository surface.
type MockPasswordResets struct {
	mock.Mock
	accounts.PasswordResets
}

func (m *MockPasswordResets) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*accounts.PasswordReset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.PasswordReset), args.Error(1)
}

func (m *MockPasswordResets) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.PasswordReset, criteria ...repository.InsertCriteria) (*accounts.PasswordReset, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.PasswordReset), args.Error(1)
}

func (m *MockPasswordResets) ConsumeTx(ctx context.Context, tx bun.IDB, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, tx, id, at)
	return args.Error(0)
}

// MockVerifier implements accounts.CodeVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Send(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockVerifier) Check(ctx context.Context, email, code string) (bool, error) {
	args := m.Called(ctx, email, code)
	return args.Bool(0), args.Error(1)
}

// MockNotifier implements accounts.ResetNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, accountID, token string) error {
	args := m.Called(ctx, email, accountID, token)
	return args.Error(0)
}
