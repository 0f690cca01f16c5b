package bot

import (
	"context"
	"errors"
	"time"

	"github.com/kwasu-works/lostfound-bot/models"
	"github.com/kwasu-works/lostfound-bot/storage"
)

// SessionManager owns the per-user conversation state stored under
// sessions/{userID}. Writes are full overwrites; the last write wins.
type SessionManager struct {
	Store storage.DocumentStore
}

func NewSessionManager(store storage.DocumentStore) *SessionManager {
	return &SessionManager{Store: store}
}

// Get returns the user's live session, or nil if they are idle.
func (m *SessionManager) Get(ctx context.Context, userID string) (*models.Session, error) {
	var session models.Session
	err := m.Store.Get(ctx, "sessions/"+userID, &session)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Set overwrites the user's session.
func (m *SessionManager) Set(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	return m.Store.Set(ctx, "sessions/"+session.UserID, session)
}

// Clear drops the user's session, returning them to the idle state.
func (m *SessionManager) Clear(ctx context.Context, userID string) error {
	return m.Store.Delete(ctx, "sessions/"+userID)
}
