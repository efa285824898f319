package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chatarena/chatarena/internal/config"
	"github.com/chatarena/chatarena/internal/domain"
)

// Responder is the opaque chat backend: given a chatbot whose history
// already ends with the new user message, it produces the bot's reply
// text or fails with a transport/application error.
type Responder interface {
	Respond(ctx context.Context, chatbot *domain.ChatbotInstance) (string, error)
}

// HTTPResponder speaks an OpenAI-compatible chat completions endpoint
type HTTPResponder struct {
	cfg    config.BackendConfig
	client *http.Client
}

// NewHTTPResponder creates a responder for the configured backend
func NewHTTPResponder(cfg config.BackendConfig) *HTTPResponder {
	return &HTTPResponder{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string                  `json:"model"`
	Messages []chatCompletionMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Respond sends the chatbot's conversation to the backend and returns
// the reply text. A per-chatbot "model" config entry overrides the
// configured default model.
func (r *HTTPResponder) Respond(ctx context.Context, chatbot *domain.ChatbotInstance) (string, error) {
	model := r.cfg.Model
	if m, ok := chatbot.Config["model"].(string); ok && m != "" {
		model = m
	}

	payload := chatCompletionRequest{
		Model:    model,
		Messages: make([]chatCompletionMessage, 0, len(chatbot.Messages)),
	}
	for _, msg := range chatbot.Messages {
		role := "user"
		if msg.Sender == domain.SenderBot {
			role = "assistant"
		}
		payload.Messages = append(payload.Messages, chatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read backend response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", fmt.Errorf("failed to decode backend response: %w", err)
	}
	if completion.Error != nil && completion.Error.Message != "" {
		return "", fmt.Errorf("backend error: %s", completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("backend returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
