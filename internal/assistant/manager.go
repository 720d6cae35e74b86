package assistant

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/anthropic"
	"github.com/rmartg14/SIBI-2025-RMARTG14/pkg/graph"
)

// ErrSessionNotFound is returned when a message references an unknown or
// expired session id.
var ErrSessionNotFound = eris.New("assistant: session not found")

type session struct {
	mu        sync.Mutex
	assistant *Assistant
}

// Manager keeps the live conversation sessions for the HTTP surface. Each
// session is serialized with its own mutex so concurrent requests against
// the same id cannot interleave state transitions.
type Manager struct {
	llm   anthropic.Completer
	graph graph.Service

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewManager(llm anthropic.Completer, g graph.Service) *Manager {
	return &Manager{
		llm:      llm,
		graph:    g,
		sessions: make(map[string]*session),
	}
}

// Create starts a new session and returns its id together with the opening
// message.
func (m *Manager) Create(ctx context.Context) (string, string, error) {
	a := New(m.llm, m.graph)
	greeting, err := a.ProcessMessage(ctx, "")
	if err != nil {
		return "", "", err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &session{assistant: a}
	m.mu.Unlock()

	zap.L().Info("session created", zap.String("session_id", id))
	return id, greeting, nil
}

// Handle routes one user message to its session and returns the reply.
func (m *Manager) Handle(ctx context.Context, id, message string) (string, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistant.ProcessMessage(ctx, message)
}

// StateOf reports the dialogue state of a session, for the session info
// endpoint.
func (m *Manager) StateOf(id string) (State, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return "", ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assistant.State(), nil
}

// Remove drops a finished session. Removing an unknown id is a no-op.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
