package service

import (
	"context"

	"github.com/chatarena/chatarena/internal/domain"
	"go.uber.org/zap"
)

// fallbackErrorMessage is shown when the backend fails without detail
const fallbackErrorMessage = "failed to get a response"

// ChatService relays user messages to the chat backend and drives the
// per-chatbot response state machine.
type ChatService struct {
	sessions  *SessionService
	responder Responder
	logger    *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(sessions *SessionService, responder Responder, logger *zap.Logger) *ChatService {
	return &ChatService{
		sessions:  sessions,
		responder: responder,
		logger:    logger,
	}
}

// SendMessage appends the user message to one chatbot's history, asks
// the backend for a reply, and records either the bot message or the
// error state. A failure is scoped to that single chatbot; the rest of
// the session is untouched. The user message is kept even when the
// exchange fails.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, chatID, content string) (*domain.ChatbotInstance, error) {
	session, err := s.sessions.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}

	chatbot := session.Chatbot(chatID)
	if chatbot == nil {
		return nil, domain.ErrChatbotNotFound
	}

	chatbot.Append(domain.NewMessage(domain.SenderUser, content))
	chatbot.StartTyping()
	if err := s.sessions.SaveSession(session); err != nil {
		return nil, err
	}

	reply, err := s.responder.Respond(ctx, chatbot)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackErrorMessage
		}
		chatbot.MarkError(msg)
		s.logger.Warn("backend send failed",
			zap.String("session_id", sessionID),
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
	} else {
		chatbot.Append(domain.NewMessage(domain.SenderBot, reply))
		chatbot.MarkResponded()
	}

	if err := s.sessions.SaveSession(session); err != nil {
		return nil, err
	}
	return chatbot, nil
}
