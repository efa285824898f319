package domain

import "time"

// ExportVersion is the export snapshot schema version
const ExportVersion = "1.0"

// ExportedChatbot is the portable form of a chatbot conversation.
// UI-only fields (state, error message, avatar) are dropped.
type ExportedChatbot struct {
	ChatID      string         `json:"chatId"`
	DisplayName string         `json:"displayName"`
	Messages    []Message      `json:"messages"`
	Config      map[string]any `json:"config,omitempty"`
}

// ExportMetadata describes an export snapshot
type ExportMetadata struct {
	ExportVersion    string    `json:"exportVersion"`
	SessionCreatedAt time.Time `json:"sessionCreatedAt"`
	SessionUpdatedAt time.Time `json:"sessionUpdatedAt"`
	TotalMessages    int       `json:"totalMessages"`
}

// ExportedData is a read-only, versioned snapshot of a session for
// external consumption. It is derived from a ComparisonSession and
// never written back.
type ExportedData struct {
	SessionID         string            `json:"sessionId"`
	ExportTimestamp   time.Time         `json:"exportTimestamp"`
	SelectedChatbotID *string           `json:"selectedChatbotId"`
	Chatbots          []ExportedChatbot `json:"chatbots"`
	Metadata          ExportMetadata    `json:"metadata"`
}
