package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populatedSession(chatbots int) *domain.ComparisonSession {
	session := domain.NewComparisonSession()
	for i := 0; i < chatbots; i++ {
		cb := domain.NewChatbot("Bot")
		cb.Append(domain.NewMessage(domain.SenderUser, "hi"))
		cb.Append(domain.NewMessage(domain.SenderBot, "hello"))
		cb.MarkResponded()
		session.Chatbots = append(session.Chatbots, cb)
	}
	return session
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore(NewMemoryStore())

	session := populatedSession(3)
	session.Selection.Notes = "left one was better"
	require.NoError(t, store.Save(session))

	loaded, err := store.Load(session.SessionID)
	require.NoError(t, err)
	require.Equal(t, session, loaded)
}

func TestSessionStoreLoadNotFound(t *testing.T) {
	store := NewSessionStore(NewMemoryStore())

	_, err := store.Load("no-such-session")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStoreLoadCorrupt(t *testing.T) {
	kv := NewMemoryStore()
	store := NewSessionStore(kv)

	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{{{ not json"},
		{"wrong shape", `{"sessionId": 42}`},
		{"missing session id", `{"chatbots": []}`},
		{"too many chatbots", tooManyChatbotsJSON(t)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, kv.Set(SessionKey("s1"), tt.value))

			_, err := store.Load("s1")
			require.ErrorIs(t, err, domain.ErrCorruptSession)
		})
	}
}

func tooManyChatbotsJSON(t *testing.T) string {
	t.Helper()

	session := populatedSession(5)
	// Serialize around the store so the invalid record lands in storage
	data, err := json.Marshal(session)
	require.NoError(t, err)
	return string(data)
}

func TestSessionStoreOverwrite(t *testing.T) {
	store := NewSessionStore(NewMemoryStore())

	session := populatedSession(2)
	require.NoError(t, store.Save(session))

	session.Chatbots[0].Append(domain.NewMessage(domain.SenderUser, "again"))
	session.Metadata.UpdatedAt = time.Now().UTC()
	require.NoError(t, store.Save(session))

	loaded, err := store.Load(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, len(loaded.Chatbots[0].Messages))
}

func TestSessionStoreClearSessionData(t *testing.T) {
	kv := NewMemoryStore()
	store := NewSessionStore(kv)

	first := populatedSession(2)
	second := populatedSession(2)
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))
	require.NoError(t, store.SetActiveSessionID(second.SessionID))
	require.NoError(t, kv.Set(KeyUserID, "u-123"))
	require.NoError(t, kv.Set(KeyChatHistory, "[]"))
	require.NoError(t, kv.Set("coverageThreshold", "80"))

	require.NoError(t, store.ClearSessionData())

	keys, err := kv.Keys()
	require.NoError(t, err)
	// The user identifier and foreign keys survive; everything
	// session-scoped is gone.
	assert.Equal(t, []string{"coverageThreshold", KeyUserID}, keys)

	_, err = store.Load(first.SessionID)
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStoreSessionIDs(t *testing.T) {
	kv := NewMemoryStore()
	store := NewSessionStore(kv)

	first := populatedSession(2)
	second := populatedSession(2)
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))
	require.NoError(t, kv.Set(KeyUserID, "u-123"))

	ids, err := store.SessionIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{first.SessionID, second.SessionID}, ids)
}

func TestSessionStoreEnsureUserID(t *testing.T) {
	store := NewSessionStore(NewMemoryStore())

	first, err := store.EnsureUserID()
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Stable across calls and across session resets
	again, err := store.EnsureUserID()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	require.NoError(t, store.ClearSessionData())
	again, err = store.EnsureUserID()
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestSessionStoreActiveSessionID(t *testing.T) {
	store := NewSessionStore(NewMemoryStore())

	_, ok, err := store.ActiveSessionID()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetActiveSessionID("s-42"))
	id, ok, err := store.ActiveSessionID()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "s-42", id)
}
