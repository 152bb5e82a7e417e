package accounts_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestForgotPasswordIssuesTokenAndNotifies(t *testing.T) {
	repo := NewMockRepositoryManager()
	notifier := &MockNotifier{}

	account := &accounts.Account{
		ID:     uuid.New(),
		Email:  "user@example.com",
		Status: accounts.StatusActive,
	}

	now := time.Now()
	created := &accounts.PasswordReset{
		ID:        uuid.New(),
		AccountID: &account.ID,
		Email:     account.Email,
		Status:    accounts.ResetRequestedStatus,
		CreatedAt: &now,
	}

	repo.MockAccounts.On("GetByEmail", mock.Anything, "user@example.com").
		Return(account, nil).Once()
	repo.MockPasswordResets.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(created, nil).Once()
	notifier.On("SendPasswordReset", mock.Anything, account.Email, account.ID.String(), created.ID.String()).
		Return(nil).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, notifier)

	res := svc.ForgotPassword(context.Background(), "user@example.com")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestForgotPasswordUnknownEmailStillSucceeds(t *testing.T) {
	repo := NewMockRepositoryManager()
	notifier := &MockNotifier{}

	repo.MockAccounts.On("GetByEmail", mock.Anything, "missing@example.com").
		Return(nil, repository.NewRecordNotFound()).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, notifier)

	res := svc.ForgotPassword(context.Background(), "missing@example.com")

	// the response never reveals whether the account exists
	require.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	notifier.AssertNotCalled(t, "SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.MockPasswordResets.AssertNotCalled(t, "CreateTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestForgotPasswordSucceedsWhenNotificationFails(t *testing.T) {
	repo := NewMockRepositoryManager()
	notifier := &MockNotifier{}

	account := &accounts.Account{
		ID:     uuid.New(),
		Email:  "user@example.com",
		Status: accounts.StatusActive,
	}

	now := time.Now()
	created := &accounts.PasswordReset{
		ID:        uuid.New(),
		AccountID: &account.ID,
		Email:     account.Email,
		Status:    accounts.ResetRequestedStatus,
		CreatedAt: &now,
	}

	repo.MockAccounts.On("GetByEmail", mock.Anything, "user@example.com").
		Return(account, nil).Once()
	repo.MockPasswordResets.On("CreateTx", mock.Anything, mock.Anything, mock.Anything).
		Return(created, nil).Once()
	notifier.On("SendPasswordReset", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, notifier)

	res := svc.ForgotPassword(context.Background(), "user@example.com")

	require.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func resetFixture(t *testing.T, age time.Duration) (*accounts.Account, *accounts.PasswordReset) {
	t.Helper()

	account := &accounts.Account{
		ID:     uuid.New(),
		Email:  "user@example.com",
		Status: accounts.StatusActive,
	}

	createdAt := time.Now().Add(-age)
	reset := &accounts.PasswordReset{
		ID:        uuid.New(),
		AccountID: &account.ID,
		Email:     account.Email,
		Status:    accounts.ResetRequestedStatus,
		CreatedAt: &createdAt,
	}

	return account, reset
}

func TestResetPasswordConsumesToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, time.Hour)

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()
	repo.MockPasswordResets.On("ConsumeTx", mock.Anything, mock.Anything, reset.ID, mock.Anything).
		Return(nil).Once()
	repo.MockAccounts.On("ResetPasswordTx", mock.Anything, mock.Anything, account.ID, mock.Anything).
		Return(nil).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	require.True(t, res.Success, "unexpected failure: %s", res.Error)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	repo.AssertExpectations(t)
}

func TestResetPasswordRejectsConcurrentlyConsumedToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, time.Hour)

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()
	// the guarded update missed: a parallel reset claimed the token between
	// the read and the write
	repo.MockPasswordResets.On("ConsumeTx", mock.Anything, mock.Anything, reset.ID, mock.Anything).
		Return(repository.NewRecordNotFound()).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)

	repo.MockAccounts.AssertNotCalled(t, "ResetPasswordTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordExpiryFollowsInjectedClock(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, time.Hour)

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()

	// a token one hour old is well past the window when the clock says
	// two days have gone by
	clock := func() time.Time { return time.Now().Add(48 * time.Hour) }
	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{}, accounts.WithClock(clock))

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)

	repo.MockPasswordResets.AssertNotCalled(t, "ConsumeTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, 25*time.Hour)

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)

	repo.MockAccounts.AssertNotCalled(t, "ResetPasswordTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPasswordRejectsConsumedToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, time.Hour)
	reset.Status = accounts.ResetChangedStatus

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)
}

func TestResetPasswordRejectsForeignToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, reset := resetFixture(t, time.Hour)

	otherID := uuid.New()
	reset.AccountID = &otherID

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, reset.ID.String()).
		Return(reset, nil).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), reset.ID.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)
}

func TestResetPasswordRejectsMissingToken(t *testing.T) {
	repo := NewMockRepositoryManager()
	account, _ := resetFixture(t, time.Hour)
	token := uuid.New()

	repo.MockAccounts.On("GetByID", mock.Anything, account.ID.String()).
		Return(account, nil).Once()
	repo.MockPasswordResets.On("GetByID", mock.Anything, token.String()).
		Return(nil, repository.NewRecordNotFound()).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), account.ID.String(), token.String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, accounts.MsgInvalidOrExpired, res.Error)
}

func TestResetPasswordUnknownAccount(t *testing.T) {
	repo := NewMockRepositoryManager()
	id := uuid.New()

	repo.MockAccounts.On("GetByID", mock.Anything, id.String()).
		Return(nil, repository.NewRecordNotFound()).Once()

	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), id.String(), uuid.New().String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, accounts.MsgAccountNotFound, res.Error)
}

func TestResetPasswordRejectsMalformedAccountID(t *testing.T) {
	repo := NewMockRepositoryManager()
	svc := accounts.NewService(repo, &MockVerifier{}, &MockNotifier{})

	res := svc.ResetPassword(context.Background(), "not-a-uuid", uuid.New().String(), "newPassword123")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
