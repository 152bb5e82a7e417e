package accounts

import (
	"context"
	"net/http"
	"time"
)

// DefaultOperationTimeout bounds every call that reaches a collaborator.
const DefaultOperationTimeout = time.Second * 10

// Service is the account lifecycle engine. It is stateless between
// calls; durable state lives behind the RepositoryManager, delivery of
// verification codes behind the CodeVerifier, and reset notifications
// behind the ResetNotifier.
type Service struct {
	repo        RepositoryManager
	verifier    CodeVerifier
	notifier    ResetNotifier
	logger      Logger
	opTimeout   time.Duration
	resetWindow string
	now         func() time.Time
}

var _ AccountOperations = (*Service)(nil)

// ServiceOption customizes the engine.
type ServiceOption func(*Service)

// WithLogger overrides the logger used by the engine.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOperationTimeout bounds collaborator calls. Zero keeps the default.
func WithOperationTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		if timeout > 0 {
			s.opTimeout = timeout
		}
	}
}

// WithResetWindow sets how long reset tokens stay valid, e.g. "24h".
func WithResetWindow(pattern string) ServiceOption {
	return func(s *Service) {
		if pattern != "" {
			s.resetWindow = pattern
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewService creates the engine with explicit collaborators.
func NewService(repo RepositoryManager, verifier CodeVerifier, notifier ResetNotifier, opts ...ServiceOption) *Service {
	s := &Service{
		repo:        repo,
		verifier:    verifier,
		notifier:    notifier,
		logger:      defLogger{},
		opTimeout:   DefaultOperationTimeout,
		resetWindow: ResetTokenWindow,
		now:         time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

func (s *Service) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// recoverOp converts a panic into an unexpected-failure envelope so no
// fault crosses the engine boundary raw.
func (s *Service) recoverOp(op string, res *Result) {
	if r := recover(); r != nil {
		s.logger.Error("recovered panic during %s: %v", op, r)
		*res = NewFailure(MsgUnexpectedError, http.StatusInternalServerError)
	}
}

func recoverTypedOp[T any](logger Logger, op string, res *TypedResult[T]) {
	if r := recover(); r != nil {
		logger.Error("recovered panic during %s: %v", op, r)
		*res = NewTypedFailure[T](MsgUnexpectedError, http.StatusInternalServerError)
	}
}
