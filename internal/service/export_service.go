package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/chatarena/chatarena/internal/repository"
)

// ExportService produces portable snapshots of comparison sessions.
// It only ever reads the canonical records; the snapshot shares no
// mutable state with the session.
type ExportService struct {
	sessions *repository.SessionStore
}

// NewExportService creates a new export service
func NewExportService(sessions *repository.SessionStore) *ExportService {
	return &ExportService{sessions: sessions}
}

// ExportSession builds an ExportedData snapshot of a session. Fails
// with ErrSessionNotFound when no usable record exists. UI-only fields
// (state, error message, avatar) are dropped from each chatbot.
func (s *ExportService) ExportSession(sessionID string) (*domain.ExportedData, error) {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptSession) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return nil, err
	}

	exported := &domain.ExportedData{
		SessionID:         session.SessionID,
		ExportTimestamp:   time.Now().UTC(),
		SelectedChatbotID: session.Selection.SelectedChatbotID,
		Chatbots:          make([]domain.ExportedChatbot, 0, len(session.Chatbots)),
		Metadata: domain.ExportMetadata{
			ExportVersion:    domain.ExportVersion,
			SessionCreatedAt: session.Metadata.CreatedAt,
			SessionUpdatedAt: session.Metadata.UpdatedAt,
			TotalMessages:    session.TotalMessages(),
		},
	}

	for _, cb := range session.Chatbots {
		messages := make([]domain.Message, len(cb.Messages))
		copy(messages, cb.Messages)

		var cfg map[string]any
		if cb.Config != nil {
			cfg = make(map[string]any, len(cb.Config))
			for k, v := range cb.Config {
				cfg[k] = v
			}
		}

		exported.Chatbots = append(exported.Chatbots, domain.ExportedChatbot{
			ChatID:      cb.ChatID,
			DisplayName: cb.DisplayName,
			Messages:    messages,
			Config:      cfg,
		})
	}

	return exported, nil
}

// WriteJSON writes the snapshot as pretty-printed JSON
func (s *ExportService) WriteJSON(data *domain.ExportedData, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Filename returns the download filename for a snapshot
func (s *ExportService) Filename(data *domain.ExportedData) string {
	return fmt.Sprintf("chatbot-comparison-%s.json", data.ExportTimestamp.Format("20060102-150405"))
}
