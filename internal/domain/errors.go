package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrSessionNotFound indicates no record exists for the session ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrCorruptSession indicates a stored session failed to decode or validate
	ErrCorruptSession = errors.New("session data corrupted")
	// ErrSessionFull indicates the session already holds the maximum number of chatbots
	ErrSessionFull = errors.New("session already has maximum chatbots")
	// ErrChatbotNotFound indicates no chatbot with the given ID in the session
	ErrChatbotNotFound = errors.New("chatbot not found in session")
	// ErrInvalidSession indicates the session violates the comparison invariants
	ErrInvalidSession = errors.New("invalid comparison session")
)

// ValidationError reports which field of a record failed validation and
// why, so callers can tell what was rejected rather than getting a bare
// boolean.
type ValidationError struct {
	Record string // message, chatbot, session
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s: %s", e.Record, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSession
}
