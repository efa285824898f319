package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/chatarena/chatarena/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExportService(t *testing.T) (*ExportService, *repository.SessionStore) {
	t.Helper()
	store := repository.NewSessionStore(repository.NewMemoryStore())
	return NewExportService(store), store
}

func sessionWithMessageCounts(counts ...int) *domain.ComparisonSession {
	session := domain.NewComparisonSession()
	for i, count := range counts {
		cb := domain.NewChatbot(fmt.Sprintf("Bot %d", i+1))
		cb.Avatar = "avatar.png"
		cb.Config = map[string]any{"model": fmt.Sprintf("model-%d", i+1)}
		for j := 0; j < count; j++ {
			sender := domain.SenderUser
			if j%2 == 1 {
				sender = domain.SenderBot
			}
			cb.Append(domain.NewMessage(sender, fmt.Sprintf("message %d", j)))
		}
		cb.MarkResponded()
		session.Chatbots = append(session.Chatbots, cb)
	}
	return session
}

func TestExportSessionTotals(t *testing.T) {
	svc, store := newTestExportService(t)

	session := sessionWithMessageCounts(3, 5)
	require.NoError(t, store.Save(session))

	data, err := svc.ExportSession(session.SessionID)
	require.NoError(t, err)

	assert.Equal(t, session.SessionID, data.SessionID)
	assert.Equal(t, domain.ExportVersion, data.Metadata.ExportVersion)
	assert.Equal(t, 8, data.Metadata.TotalMessages)
	assert.Equal(t, session.Metadata.CreatedAt, data.Metadata.SessionCreatedAt)
	assert.Equal(t, session.Metadata.UpdatedAt, data.Metadata.SessionUpdatedAt)
	assert.False(t, data.ExportTimestamp.IsZero())
}

func TestExportSessionDropsUIFields(t *testing.T) {
	svc, store := newTestExportService(t)

	session := sessionWithMessageCounts(2, 2)
	session.Chatbots[0].MarkError("transient failure")
	require.NoError(t, store.Save(session))

	data, err := svc.ExportSession(session.SessionID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.WriteJSON(data, &buf))

	// State, error message, and avatar never reach the export document
	assert.NotContains(t, buf.String(), "errorMessage")
	assert.NotContains(t, buf.String(), "avatar")
	assert.NotContains(t, buf.String(), `"state"`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, session.SessionID, decoded["sessionId"])
}

func TestExportSessionNotFound(t *testing.T) {
	svc, _ := newTestExportService(t)

	_, err := svc.ExportSession("no-such-session")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestExportSessionCorruptTreatedAsNotFound(t *testing.T) {
	kv := repository.NewMemoryStore()
	store := repository.NewSessionStore(kv)
	svc := NewExportService(store)

	require.NoError(t, kv.Set(repository.SessionKey("mangled"), "not json"))

	_, err := svc.ExportSession("mangled")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestExportSnapshotIsIndependent(t *testing.T) {
	svc, store := newTestExportService(t)

	session := sessionWithMessageCounts(2, 2)
	require.NoError(t, store.Save(session))

	data, err := svc.ExportSession(session.SessionID)
	require.NoError(t, err)

	// Mutating the snapshot must not leak into a later export
	data.Chatbots[0].Messages[0].Content = "tampered"
	data.Chatbots[0].Config["model"] = "tampered"

	again, err := svc.ExportSession(session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "message 0", again.Chatbots[0].Messages[0].Content)
	assert.Equal(t, "model-1", again.Chatbots[0].Config["model"])
}

// TestCreatePopulateChatExport walks the whole flow: new session, two
// chatbots, one exchange each, then export.
func TestCreatePopulateChatExport(t *testing.T) {
	kv := repository.NewMemoryStore()
	store := repository.NewSessionStore(kv)
	sessions := NewSessionService(store, zap.NewNop())
	chat := NewChatService(sessions, &stubResponder{reply: "hello"}, zap.NewNop())
	export := NewExportService(store)

	sessionID, err := sessions.InitializeNewSession()
	require.NoError(t, err)
	chatbots := populateChatbots(t, sessions, sessionID, 2)

	for _, cb := range chatbots {
		_, err := chat.SendMessage(context.Background(), sessionID, cb.ChatID, "hi")
		require.NoError(t, err)
	}

	data, err := export.ExportSession(sessionID)
	require.NoError(t, err)

	assert.Nil(t, data.SelectedChatbotID)
	require.Len(t, data.Chatbots, 2)
	for _, cb := range data.Chatbots {
		require.Len(t, cb.Messages, 2)
		assert.Equal(t, "hi", cb.Messages[0].Content)
		assert.Equal(t, "hello", cb.Messages[1].Content)
	}
	assert.Equal(t, 4, data.Metadata.TotalMessages)
}
