package domain

import "fmt"

// ValidateMessage checks a decoded message before it is trusted.
// Returns nil when valid, otherwise a *ValidationError naming the
// offending field.
func ValidateMessage(m *Message) error {
	if m == nil {
		return &ValidationError{Record: "message", Field: "message", Reason: "not an object"}
	}
	if m.ID == "" {
		return &ValidationError{Record: "message", Field: "id", Reason: "must be a non-empty string"}
	}
	if m.Content == "" {
		return &ValidationError{Record: "message", Field: "content", Reason: "must be a non-empty string"}
	}
	if m.Sender != SenderUser && m.Sender != SenderBot {
		return &ValidationError{Record: "message", Field: "sender", Reason: fmt.Sprintf("must be %q or %q", SenderUser, SenderBot)}
	}
	if m.Timestamp.IsZero() {
		return &ValidationError{Record: "message", Field: "timestamp", Reason: "must be a valid date"}
	}
	return nil
}

// ValidateChatbot checks a decoded chatbot instance, including every
// message in its history.
func ValidateChatbot(cb *ChatbotInstance) error {
	if cb == nil {
		return &ValidationError{Record: "chatbot", Field: "chatbot", Reason: "not an object"}
	}
	if cb.ChatID == "" {
		return &ValidationError{Record: "chatbot", Field: "chatId", Reason: "must be a non-empty string"}
	}
	if cb.DisplayName == "" {
		return &ValidationError{Record: "chatbot", Field: "displayName", Reason: "must be a non-empty string"}
	}
	switch cb.State {
	case StateIdle, StateTyping, StateResponded, StateError:
	default:
		return &ValidationError{Record: "chatbot", Field: "state", Reason: fmt.Sprintf("unknown state %q", cb.State)}
	}
	for i := range cb.Messages {
		if err := ValidateMessage(&cb.Messages[i]); err != nil {
			return &ValidationError{Record: "chatbot", Field: fmt.Sprintf("messages[%d]", i), Reason: err.Error()}
		}
	}
	return nil
}

// ValidateSession checks the full comparison invariant: a session is
// valid only when it holds between MinChatbots and MaxChatbots valid
// chatbot instances.
func ValidateSession(s *ComparisonSession) error {
	if err := ValidateStoredSession(s); err != nil {
		return err
	}
	if len(s.Chatbots) < MinChatbots {
		return &ValidationError{
			Record: "session",
			Field:  "chatbots",
			Reason: fmt.Sprintf("must hold at least %d chatbots, has %d", MinChatbots, len(s.Chatbots)),
		}
	}
	return nil
}

// ValidateStoredSession is the load-time check: structure must be
// sound, but an empty chatbots slice is accepted so a freshly
// initialized session (pending population) survives a reload.
func ValidateStoredSession(s *ComparisonSession) error {
	if s == nil {
		return &ValidationError{Record: "session", Field: "session", Reason: "not an object"}
	}
	if s.SessionID == "" {
		return &ValidationError{Record: "session", Field: "sessionId", Reason: "must be a string"}
	}
	if len(s.Chatbots) > MaxChatbots {
		return &ValidationError{
			Record: "session",
			Field:  "chatbots",
			Reason: fmt.Sprintf("must hold at most %d chatbots, has %d", MaxChatbots, len(s.Chatbots)),
		}
	}
	seen := make(map[string]bool, len(s.Chatbots))
	for i, cb := range s.Chatbots {
		if err := ValidateChatbot(cb); err != nil {
			return &ValidationError{Record: "session", Field: fmt.Sprintf("chatbots[%d]", i), Reason: err.Error()}
		}
		if seen[cb.ChatID] {
			return &ValidationError{Record: "session", Field: fmt.Sprintf("chatbots[%d]", i), Reason: fmt.Sprintf("duplicate chatId %q", cb.ChatID)}
		}
		seen[cb.ChatID] = true
	}
	return nil
}

// IsValidMessage is the boolean form of ValidateMessage
func IsValidMessage(m *Message) bool {
	return ValidateMessage(m) == nil
}

// IsValidChatbotInstance is the boolean form of ValidateChatbot
func IsValidChatbotInstance(cb *ChatbotInstance) bool {
	return ValidateChatbot(cb) == nil
}

// IsValidComparisonSession is the boolean form of ValidateSession
func IsValidComparisonSession(s *ComparisonSession) bool {
	return ValidateSession(s) == nil
}
