package service

import (
	"errors"
	"time"

	"github.com/chatarena/chatarena/internal/domain"
	"github.com/chatarena/chatarena/internal/repository"
	"go.uber.org/zap"
)

// SessionService handles the comparison session lifecycle
type SessionService struct {
	sessions *repository.SessionStore
	logger   *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(sessions *repository.SessionStore, logger *zap.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		logger:   logger,
	}
}

// InitializeNewSession creates a fresh, empty session, persists it, and
// records it as the active session. Returns the new session ID. The
// user identifier is created here if this is the first session.
func (s *SessionService) InitializeNewSession() (string, error) {
	if _, err := s.sessions.EnsureUserID(); err != nil {
		return "", err
	}

	session := domain.NewComparisonSession()
	if err := s.sessions.Save(session); err != nil {
		return "", err
	}
	if err := s.sessions.SetActiveSessionID(session.SessionID); err != nil {
		return "", err
	}
	return session.SessionID, nil
}

// LoadSession reads a session record. An absent, corrupt, or invalid
// record degrades to (nil, nil) so callers can start fresh; only
// storage-level failures surface as errors. Corrupt records are logged
// so the distinction from "not found" is observable.
func (s *SessionService) LoadSession(sessionID string) (*domain.ComparisonSession, error) {
	session, err := s.sessions.Load(sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		if errors.Is(err, domain.ErrCorruptSession) {
			s.logger.Warn("discarding corrupt session record",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// SaveSession refreshes the session's UpdatedAt timestamp and writes
// the full record, overwriting any prior value.
func (s *SessionService) SaveSession(session *domain.ComparisonSession) error {
	session.Touch()
	return s.sessions.Save(session)
}

// AddChatbot adds a chatbot instance to a session. Fails with
// ErrSessionFull once the session holds the maximum number of chatbots.
func (s *SessionService) AddChatbot(sessionID string, req *domain.CreateChatbotRequest) (*domain.ChatbotInstance, error) {
	session, err := s.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if len(session.Chatbots) >= domain.MaxChatbots {
		return nil, domain.ErrSessionFull
	}

	chatbot := domain.NewChatbot(req.DisplayName)
	chatbot.Avatar = req.Avatar
	chatbot.Config = req.Config
	session.Chatbots = append(session.Chatbots, chatbot)

	if err := s.SaveSession(session); err != nil {
		return nil, err
	}
	return chatbot, nil
}

// SetPreference records the user's preferred chatbot. The session must
// satisfy the comparison invariant, and a non-nil selection must name a
// chatbot present in the session. The selection may be overwritten.
func (s *SessionService) SetPreference(sessionID string, req *domain.SetSelectionRequest) (*domain.PreferenceSelection, error) {
	session, err := s.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if err := domain.ValidateSession(session); err != nil {
		return nil, err
	}
	if req.SelectedChatbotID != nil && session.Chatbot(*req.SelectedChatbotID) == nil {
		return nil, domain.ErrChatbotNotFound
	}

	session.Selection = domain.PreferenceSelection{
		SelectedChatbotID: req.SelectedChatbotID,
		Timestamp:         time.Now().UTC(),
		Notes:             req.Notes,
	}

	if err := s.SaveSession(session); err != nil {
		return nil, err
	}
	return &session.Selection, nil
}

// ClearAllData removes all session-scoped persisted keys. The user
// identifier and keys owned by other tools survive.
func (s *SessionService) ClearAllData() error {
	return s.sessions.ClearSessionData()
}

// Stats returns totals across all persisted sessions. Corrupt records
// are skipped rather than failing the whole count.
func (s *SessionService) Stats() (*domain.Stats, error) {
	ids, err := s.sessions.SessionIDs()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{}
	for _, id := range ids {
		session, err := s.LoadSession(id)
		if err != nil {
			return nil, err
		}
		if session == nil {
			continue
		}
		stats.TotalSessions++
		stats.TotalMessages += session.TotalMessages()
	}
	return stats, nil
}
