package handler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bt-group/leave-portal/internal/core/domain"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/session"
)

// ---------------------------------------------------------------------------
// Shared stubs for the handler tests
// ---------------------------------------------------------------------------

type memoryPersistence struct {
	token, user string
}

func (p *memoryPersistence) Save(_ context.Context, token, user string) error {
	p.token, p.user = token, user
	return nil
}
func (p *memoryPersistence) Load(context.Context) (string, string, error) {
	return p.token, p.user, nil
}
func (p *memoryPersistence) Delete(context.Context) error {
	p.token, p.user = "", ""
	return nil
}

func storeWithIdentity(identity domain.Identity) *session.Store {
	store := session.NewStore("sess-h", &memoryPersistence{}, zerolog.Nop())
	store.Restore(context.Background())
	store.Set(context.Background(), "tok", identity)
	return store
}

func anonymousStore() *session.Store {
	store := session.NewStore("sess-h", &memoryPersistence{}, zerolog.Nop())
	store.Restore(context.Background())
	return store
}

// stubBackend lets each test override just the calls it cares about.
type stubBackend struct {
	loginFn           func(email, password string) (string, error)
	allRequestsFn     func() ([]domain.LeaveRequest, error)
	pendingRequestsFn func() ([]domain.LeaveRequest, error)
	requestsForUserFn func(userID int) ([]domain.LeaveRequest, error)
	createRequestFn   func(in ports.CreateLeaveRequestInput) (*domain.LeaveRequest, error)
	actionFn          func(requestID int) error
	usersFn           func() ([]domain.User, error)
	leaveBalanceFn    func(userID int) (*domain.LeaveBalance, error)
}

func (b *stubBackend) Login(_ context.Context, email, password string) (string, error) {
	return b.loginFn(email, password)
}

func (b *stubBackend) AllRequests(context.Context) ([]domain.LeaveRequest, error) {
	return b.allRequestsFn()
}

func (b *stubBackend) PendingRequests(context.Context) ([]domain.LeaveRequest, error) {
	return b.pendingRequestsFn()
}

func (b *stubBackend) RequestsForUser(_ context.Context, userID int) ([]domain.LeaveRequest, error) {
	return b.requestsForUserFn(userID)
}

func (b *stubBackend) CreateRequest(_ context.Context, in ports.CreateLeaveRequestInput) (*domain.LeaveRequest, error) {
	return b.createRequestFn(in)
}

func (b *stubBackend) ApproveRequest(_ context.Context, requestID int) error {
	return b.actionFn(requestID)
}

func (b *stubBackend) RejectRequest(_ context.Context, requestID int) error {
	return b.actionFn(requestID)
}

func (b *stubBackend) CancelRequest(_ context.Context, requestID int) error {
	return b.actionFn(requestID)
}

func (b *stubBackend) Users(context.Context) ([]domain.User, error) {
	return b.usersFn()
}

func (b *stubBackend) LeaveBalance(_ context.Context, userID int) (*domain.LeaveBalance, error) {
	return b.leaveBalanceFn(userID)
}

// stubSubmitGuard records marks and reports configured duplicates.
type stubSubmitGuard struct {
	duplicate bool
	dupErr    error
	marked    int
}

func (g *stubSubmitGuard) IsDuplicate(context.Context, int, int, string, string) (bool, error) {
	return g.duplicate, g.dupErr
}

func (g *stubSubmitGuard) Mark(context.Context, int, int, string, string) error {
	g.marked++
	return nil
}
