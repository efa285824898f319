package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMessage() Message {
	return Message{
		ID:        "msg-1",
		Content:   "hello",
		Sender:    SenderUser,
		Timestamp: time.Now().UTC(),
	}
}

func validChatbot(chatID string) *ChatbotInstance {
	return &ChatbotInstance{
		ChatID:      chatID,
		DisplayName: "Bot " + chatID,
		Messages:    []Message{validMessage()},
		State:       StateIdle,
	}
}

func validSession(chatbotCount int) *ComparisonSession {
	s := NewComparisonSession()
	for i := 0; i < chatbotCount; i++ {
		s.Chatbots = append(s.Chatbots, validChatbot(fmt.Sprintf("chat-%d", i)))
	}
	return s
}

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Message)
		wantErr string
	}{
		{"valid", func(m *Message) {}, ""},
		{"empty id", func(m *Message) { m.ID = "" }, "id"},
		{"empty content", func(m *Message) { m.Content = "" }, "content"},
		{"unknown sender", func(m *Message) { m.Sender = "assistant" }, "sender"},
		{"zero timestamp", func(m *Message) { m.Timestamp = time.Time{} }, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validMessage()
			tt.mutate(&msg)

			err := ValidateMessage(&msg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, IsValidMessage(&msg))
				return
			}

			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Field)
			assert.False(t, IsValidMessage(&msg))
		})
	}
}

func TestValidateMessageNil(t *testing.T) {
	assert.Error(t, ValidateMessage(nil))
}

func TestValidateChatbot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChatbotInstance)
		valid  bool
	}{
		{"valid", func(cb *ChatbotInstance) {}, true},
		{"no messages is valid", func(cb *ChatbotInstance) { cb.Messages = nil }, true},
		{"typing state", func(cb *ChatbotInstance) { cb.State = StateTyping }, true},
		{"error state", func(cb *ChatbotInstance) { cb.State = StateError; cb.ErrorMessage = "boom" }, true},
		{"empty chat id", func(cb *ChatbotInstance) { cb.ChatID = "" }, false},
		{"empty display name", func(cb *ChatbotInstance) { cb.DisplayName = "" }, false},
		{"unknown state", func(cb *ChatbotInstance) { cb.State = "thinking" }, false},
		{"bad embedded message", func(cb *ChatbotInstance) { cb.Messages[0].Content = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := validChatbot("chat-1")
			tt.mutate(cb)
			assert.Equal(t, tt.valid, IsValidChatbotInstance(cb))
		})
	}
}

func TestValidateSessionChatbotBounds(t *testing.T) {
	for _, count := range []int{0, 1, 5, 6} {
		t.Run(fmt.Sprintf("%d chatbots rejected", count), func(t *testing.T) {
			assert.False(t, IsValidComparisonSession(validSession(count)))
		})
	}
	for _, count := range []int{2, 3, 4} {
		t.Run(fmt.Sprintf("%d chatbots accepted", count), func(t *testing.T) {
			assert.True(t, IsValidComparisonSession(validSession(count)))
		})
	}
}

func TestValidateSessionRejectsDuplicateChatIDs(t *testing.T) {
	s := validSession(2)
	s.Chatbots[1].ChatID = s.Chatbots[0].ChatID
	assert.False(t, IsValidComparisonSession(s))
}

func TestValidateSessionRejectsInvalidMember(t *testing.T) {
	s := validSession(3)
	s.Chatbots[2].DisplayName = ""

	err := ValidateSession(s)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "chatbots[2]", verr.Field)
}

func TestValidateStoredSessionAcceptsEmptyChatbots(t *testing.T) {
	// A freshly initialized session has no chatbots yet; it must
	// survive a reload even though it is not a valid comparison.
	s := validSession(0)
	assert.NoError(t, ValidateStoredSession(s))
	assert.False(t, IsValidComparisonSession(s))
}

func TestValidateStoredSessionRejectsTooMany(t *testing.T) {
	assert.Error(t, ValidateStoredSession(validSession(5)))
	assert.Error(t, ValidateStoredSession(nil))
}
