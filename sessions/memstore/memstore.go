package memstore

import (
	"context"
	"sync"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/sessions"
)

var _ sessions.Store = (*MemStore)(nil)

// MemStore keeps the session in process memory. It is the ephemeral per-context
// storage: the session dies with the process.
type MemStore struct {
	session *sessions.Session
	lock    sync.RWMutex
}

func New() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Load(_ context.Context) (*sessions.Session, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	if m.session == nil {
		return nil, autherrors.ErrNotAuthenticated
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemStore) Save(_ context.Context, session *sessions.Session) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	cp := *session
	m.session = &cp
	return nil
}

func (m *MemStore) ReplaceAccessToken(_ context.Context, refreshToken, accessToken string) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.session == nil || m.session.RefreshToken != refreshToken {
		return autherrors.ErrSessionReplaced
	}
	m.session.AccessToken = accessToken
	return nil
}

func (m *MemStore) Clear(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.session = nil
	return nil
}
