package repository

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/google/uuid"
)

// Storage keys. SessionKeyPrefix namespaces per-session records; the
// remaining keys are singletons shared with earlier variants of the UI.
const (
	SessionKeyPrefix = "comparison_session_"
	KeyUserID        = "user_id"
	KeyActiveSession = "session_id"
	// KeyChatHistory is a legacy key from the single-chat variant,
	// cleared alongside session data.
	KeyChatHistory = "chat_history"
)

// SessionStore owns the canonical ComparisonSession records in the KV
// namespace. It is the only writer of session-scoped keys.
type SessionStore struct {
	store KVStore
}

// NewSessionStore creates a session store on the given KV store
func NewSessionStore(store KVStore) *SessionStore {
	return &SessionStore{store: store}
}

// SessionKey returns the storage key for a session ID
func SessionKey(sessionID string) string {
	return SessionKeyPrefix + sessionID
}

// Save serializes and writes the full session record, overwriting any
// prior value for that session ID.
func (s *SessionStore) Save(session *domain.ComparisonSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session %s: %w", session.SessionID, err)
	}
	return s.store.Set(SessionKey(session.SessionID), string(data))
}

// Load reads and deserializes a session record. It distinguishes an
// absent record (ErrSessionNotFound) from one that fails to decode or
// validate (ErrCorruptSession); callers that only care about "no
// usable session" can treat both the same.
func (s *SessionStore) Load(sessionID string) (*domain.ComparisonSession, error) {
	value, ok, err := s.store.Get(SessionKey(sessionID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	var session domain.ComparisonSession
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptSession, sessionID, err)
	}
	if err := domain.ValidateStoredSession(&session); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptSession, sessionID, err)
	}

	return &session, nil
}

// Delete removes a session record
func (s *SessionStore) Delete(sessionID string) error {
	return s.store.Delete(SessionKey(sessionID))
}

// SessionIDs returns the IDs of all persisted sessions
func (s *SessionStore) SessionIDs() ([]string, error) {
	keys, err := s.store.Keys()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, key := range keys {
		if strings.HasPrefix(key, SessionKeyPrefix) {
			ids = append(ids, strings.TrimPrefix(key, SessionKeyPrefix))
		}
	}
	return ids, nil
}

// SetActiveSessionID records the currently active session
func (s *SessionStore) SetActiveSessionID(sessionID string) error {
	return s.store.Set(KeyActiveSession, sessionID)
}

// ActiveSessionID returns the currently active session ID, if any
func (s *SessionStore) ActiveSessionID() (string, bool, error) {
	return s.store.Get(KeyActiveSession)
}

// EnsureUserID returns the persistent user identifier, generating and
// storing one on first use. It is independent of any session and
// survives ClearSessionData.
func (s *SessionStore) EnsureUserID() (string, error) {
	id, ok, err := s.store.Get(KeyUserID)
	if err != nil {
		return "", err
	}
	if ok {
		return id, nil
	}

	id = uuid.New().String()
	if err := s.store.Set(KeyUserID, id); err != nil {
		return "", err
	}
	return id, nil
}

// ClearSessionData removes every session-scoped key: all session
// records, the active session pointer, and the legacy chat history.
// The user identifier and any keys owned by other tools are left
// untouched.
func (s *SessionStore) ClearSessionData() error {
	keys, err := s.store.Keys()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if strings.HasPrefix(key, SessionKeyPrefix) || key == KeyActiveSession || key == KeyChatHistory {
			if err := s.store.Delete(key); err != nil {
				return err
			}
		}
	}
	return nil
}
