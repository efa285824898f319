package domain

import (
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the persisted session schema version.
const SchemaVersion = "1.0"

// MaxChatbots and MinChatbots bound how many chatbots a valid
// comparison session holds.
const (
	MinChatbots = 2
	MaxChatbots = 4
)

// Sender identifies who produced a message
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatState represents a chatbot's response state
type ChatState string

const (
	StateIdle      ChatState = "idle"
	StateTyping    ChatState = "typing"
	StateResponded ChatState = "responded"
	StateError     ChatState = "error"
)

// DisplayStyle holds optional per-message presentation hints
type DisplayStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

// Message represents a single chat message. Messages are immutable once
// created and appended in order to a chatbot's history.
type Message struct {
	ID           string        `json:"id"`
	Content      string        `json:"content"`
	Sender       string        `json:"sender"` // user, bot
	Timestamp    time.Time     `json:"timestamp"`
	DisplayStyle *DisplayStyle `json:"displayStyle,omitempty"`
}

// NewMessage creates a message with a generated ID and current timestamp
func NewMessage(sender, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
}

// ChatbotInstance is one side of a comparison, with its own message
// history and response state.
type ChatbotInstance struct {
	ChatID       string         `json:"chatId"`
	DisplayName  string         `json:"displayName"`
	Avatar       string         `json:"avatar,omitempty"`
	Messages     []Message      `json:"messages"`
	State        ChatState      `json:"state"`
	Config       map[string]any `json:"config,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// NewChatbot creates an idle chatbot with a generated chat ID
func NewChatbot(displayName string) *ChatbotInstance {
	return &ChatbotInstance{
		ChatID:      uuid.New().String(),
		DisplayName: displayName,
		Messages:    []Message{},
		State:       StateIdle,
	}
}

// Append adds a message to the chatbot's history
func (cb *ChatbotInstance) Append(msg Message) {
	cb.Messages = append(cb.Messages, msg)
}

// StartTyping transitions the chatbot into the typing state for a new
// exchange, clearing any previous error.
func (cb *ChatbotInstance) StartTyping() {
	cb.State = StateTyping
	cb.ErrorMessage = ""
}

// MarkResponded transitions typing -> responded
func (cb *ChatbotInstance) MarkResponded() {
	cb.State = StateResponded
}

// MarkError transitions the chatbot into the error state, preserving
// the failure message for display.
func (cb *ChatbotInstance) MarkError(msg string) {
	cb.State = StateError
	cb.ErrorMessage = msg
}

// PreferenceSelection records which chatbot the user preferred.
// SelectedChatbotID is nil until a choice is made; the selection may be
// overwritten.
type PreferenceSelection struct {
	SelectedChatbotID *string   `json:"selectedChatbotId"`
	Timestamp         time.Time `json:"timestamp"`
	Notes             string    `json:"notes,omitempty"`
}

// SessionMetadata holds session bookkeeping. UpdatedAt must be
// refreshed on every mutation.
type SessionMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   string    `json:"version"`
}

// ComparisonSession is the canonical aggregate for one comparison task:
// 2-4 chatbot conversations plus the user's preference.
type ComparisonSession struct {
	SessionID string              `json:"sessionId"`
	Chatbots  []*ChatbotInstance  `json:"chatbots"`
	Selection PreferenceSelection `json:"selection"`
	Metadata  SessionMetadata     `json:"metadata"`
}

// NewComparisonSession creates a fresh session with no chatbots yet and
// no preference selected.
func NewComparisonSession() *ComparisonSession {
	now := time.Now().UTC()
	return &ComparisonSession{
		SessionID: uuid.New().String(),
		Chatbots:  []*ChatbotInstance{},
		Selection: PreferenceSelection{
			SelectedChatbotID: nil,
			Timestamp:         now,
		},
		Metadata: SessionMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   SchemaVersion,
		},
	}
}

// Touch refreshes the session's UpdatedAt timestamp
func (s *ComparisonSession) Touch() {
	s.Metadata.UpdatedAt = time.Now().UTC()
}

// Chatbot returns the chatbot with the given chat ID, or nil
func (s *ComparisonSession) Chatbot(chatID string) *ChatbotInstance {
	for _, cb := range s.Chatbots {
		if cb.ChatID == chatID {
			return cb
		}
	}
	return nil
}

// TotalMessages counts messages across all chatbots
func (s *ComparisonSession) TotalMessages() int {
	total := 0
	for _, cb := range s.Chatbots {
		total += len(cb.Messages)
	}
	return total
}

// Stats represents system statistics
type Stats struct {
	TotalSessions int `json:"total_sessions"`
	TotalMessages int `json:"total_messages"`
}

// CreateChatbotRequest is the request to add a chatbot to a session
type CreateChatbotRequest struct {
	DisplayName string         `json:"displayName" binding:"required"`
	Avatar      string         `json:"avatar,omitempty"`
	Config      map[string]any `json:"config,omitempty"`
}

// SendMessageRequest is the request to send a user message to one chatbot
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SetSelectionRequest is the request to record the user's preference.
// A nil SelectedChatbotID clears the selection.
type SetSelectionRequest struct {
	SelectedChatbotID *string `json:"selectedChatbotId"`
	Notes             string  `json:"notes,omitempty"`
}
