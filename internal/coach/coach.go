// Package coach produces advisory text for a game in progress. Advice comes
// from a chat-completion model when one is configured and answers in time;
// otherwise a fixed per-game tip is returned. Advise never fails.
package coach

import (
	"context"
	"errors"
	"strings"
	"time"

	"gamearena/internal/metrics"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GameState is the summary of the game the player is asking about.
type GameState struct {
	CurrentPlayer string `json:"currentPlayer"`
	Status        string `json:"status"`
	Score         int    `json:"score"`
}

type Request struct {
	Message  string    `json:"message"`
	GameType string    `json:"gameType"`
	State    GameState `json:"gameState"`
}

type Response struct {
	Response string `json:"response"`
	// Fallback is set when the canned tip was used.
	Fallback bool `json:"-"`
}

// Completer turns a system prompt and user message into model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

var errNoChoices = errors.New("completion returned no choices")

// OpenAI is a Completer backed by the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds a chat completion client. baseURL overrides the API
// endpoint (proxies, compatible servers, tests).
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAI) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// Coach answers advice requests.
type Coach struct {
	completer Completer
	timeout   time.Duration
	logger    *zap.Logger
}

// New builds a Coach. A nil completer means every answer is the fallback tip.
func New(completer Completer, timeout time.Duration, logger *zap.Logger) *Coach {
	return &Coach{
		completer: completer,
		timeout:   timeout,
		logger:    logger.With(zap.String("component", "coach")),
	}
}

// Advise asks the model and falls back to the canned tip on any failure.
func (c *Coach) Advise(ctx context.Context, req Request) Response {
	label := gameLabel(req.GameType)
	if c.completer == nil {
		metrics.CoachRequests.WithLabelValues(label, "fallback").Inc()
		return Response{Response: Fallback(req.GameType), Fallback: true}
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.completer.Complete(ctx, SystemPrompt(req.GameType, req.State), req.Message)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errNoChoices
	}
	if err != nil {
		c.logger.Warn("coach completion failed", zap.String("game", label), zap.Error(err))
		metrics.CoachRequests.WithLabelValues(label, "fallback").Inc()
		return Response{Response: Fallback(req.GameType), Fallback: true}
	}
	metrics.CoachRequests.WithLabelValues(label, "model").Inc()
	return Response{Response: text}
}

// gameLabel bounds the metric label to the known games.
func gameLabel(gameType string) string {
	if _, ok := fallbackTips[gameType]; ok {
		return gameType
	}
	return "other"
}
