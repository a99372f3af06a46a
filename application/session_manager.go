package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fixtrack/domain/staff"
	"fixtrack/logging"
)

// Session is the explicit login state handed to the browser as a
// cookie token. There is no ambient current-user; whoever needs the
// logged-in staff member resolves the token.
type Session struct {
	Token     string
	Staff     *staff.Staff
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionManager holds active sessions in memory with a TTL.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *logging.Logger
}

// NewSessionManager creates a session manager and starts its
// expiry sweep, which stops when the app context is cancelled.
func NewSessionManager(appCtx context.Context, ttl time.Duration) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logging.Default().WithComponent("session_manager"),
	}

	go m.sweepRoutine(appCtx)

	return m
}

// Open creates a session for the staff member.
func (m *SessionManager) Open(member *staff.Staff) *Session {
	now := time.Now()
	session := &Session{
		Token:     uuid.NewString(),
		Staff:     member,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[session.Token] = session
	m.mu.Unlock()

	return session
}

// Resolve returns the staff member for a live token.
func (m *SessionManager) Resolve(token string) (*staff.Staff, bool) {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()

	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session.Staff, true
}

// Close removes a session.
func (m *SessionManager) Close(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// sweepRoutine drops expired sessions periodically.
func (m *SessionManager) sweepRoutine(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *SessionManager) sweep() {
	now := time.Now()

	m.mu.Lock()
	removed := 0
	for token, session := range m.sessions {
		if now.After(session.ExpiresAt) {
			delete(m.sessions, token)
			removed++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.logger.Security("Expired sessions removed", "removed", removed, "active", remaining)
	}
}
