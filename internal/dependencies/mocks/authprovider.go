package mocks

import (
	"context"
	"sync"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/authprovider"
	"github.com/ChampneyBull/dubai-app/internal/model"
)

// MockProvider is a scriptable identity provider for testing. Set Session
// to control GetSession; call EmitAuthChange to fire auth-state events.
type MockProvider struct {
	mu       sync.Mutex
	Session  *model.ExternalIdentity
	Err      error
	handlers map[int]authprovider.Handler
	nextID   int

	SignedIn []string
	SignOuts int
}

// Ensure MockProvider implements Provider
var _ authprovider.Provider = (*MockProvider)(nil)

// NewMockProvider creates a MockProvider with no active session
func NewMockProvider() *MockProvider {
	return &MockProvider{handlers: make(map[int]authprovider.Handler)}
}

func (m *MockProvider) GetSession(ctx context.Context) (*model.ExternalIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Session == nil {
		return nil, authprovider.ErrNoSession
	}
	ident := *m.Session
	return &ident, nil
}

func (m *MockProvider) OnAuthStateChange(handler authprovider.Handler) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.handlers, id)
	}
}

func (m *MockProvider) SignIn(ctx context.Context, providerName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignedIn = append(m.SignedIn, providerName)
	return nil
}

func (m *MockProvider) SignOut(ctx context.Context) error {
	m.mu.Lock()
	m.Session = nil
	m.SignOuts++
	handlers := m.snapshotHandlersLocked()
	m.mu.Unlock()
	for _, h := range handlers {
		h(nil)
	}
	return nil
}

// EmitAuthChange sets the current session and fires all registered
// handlers, mimicking a provider login or token refresh.
func (m *MockProvider) EmitAuthChange(identity *model.ExternalIdentity) {
	m.mu.Lock()
	m.Session = identity
	handlers := m.snapshotHandlersLocked()
	m.mu.Unlock()
	for _, h := range handlers {
		h(identity)
	}
}

// HandlerCount returns the number of registered handlers
func (m *MockProvider) HandlerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handlers)
}

func (m *MockProvider) snapshotHandlersLocked() []authprovider.Handler {
	handlers := make([]authprovider.Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}
