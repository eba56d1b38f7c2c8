package auth

import (
	"context"
	"sync"
	"time"

	"github.com/munimhq/munim/internal/model"
	"github.com/munimhq/munim/internal/service"
)

// SessionManager wraps an AuthProvider with an explicit session value and
// change notifications. State is mutex-guarded; subscribers are invoked
// synchronously on sign-in and sign-out.
type SessionManager struct {
	mu          sync.Mutex
	provider    service.AuthProvider
	session     model.AuthSession
	subscribers map[int]func(model.AuthSession)
	nextSubID   int
}

// NewSessionManager creates a session manager over the given provider.
func NewSessionManager(provider service.AuthProvider) *SessionManager {
	return &SessionManager{
		provider:    provider,
		subscribers: map[int]func(model.AuthSession){},
	}
}

// SignIn authenticates and starts a session.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) (model.AuthSession, error) {
	user, err := m.provider.SignIn(ctx, email, password)
	if err != nil {
		return model.AuthSession{}, err
	}

	m.mu.Lock()
	m.session = model.AuthSession{User: user, StartedAt: time.Now().UTC()}
	session := m.session
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	for _, notify := range subs {
		notify(session)
	}
	return session, nil
}

// SignOut ends the session.
func (m *SessionManager) SignOut(ctx context.Context) error {
	if err := m.provider.SignOut(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.session = model.AuthSession{}
	session := m.session
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	for _, notify := range subs {
		notify(session)
	}
	return nil
}

// Provider exposes the underlying auth provider for operations that do not
// affect session state, such as sign-up.
func (m *SessionManager) Provider() service.AuthProvider {
	return m.provider
}

// Session returns the current session value.
func (m *SessionManager) Session() model.AuthSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Subscribe registers a callback for session changes and returns an
// unsubscribe func.
func (m *SessionManager) Subscribe(callback func(model.AuthSession)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = callback
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *SessionManager) snapshotSubscribers() []func(model.AuthSession) {
	subs := make([]func(model.AuthSession), 0, len(m.subscribers))
	for _, notify := range m.subscribers {
		subs = append(subs, notify)
	}
	return subs
}
