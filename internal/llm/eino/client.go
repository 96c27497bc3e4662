package eino

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
)

// Config for an OpenAI-compatible chat model driven through eino.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client adapts an eino chat model to llm.ChatCompleter.
type Client struct {
	cfg    Config
	model  model.BaseChatModel
	logger *slog.Logger
}

// NewClient creates an OpenAI-compatible chat model from specific configuration.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.NewAppError(common.CodeConfig, "API key is required in config", common.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	temp := cfg.Temperature
	m, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: &temp,
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create eino chat model: %w", err)
	}
	return NewWithModel(m, cfg, logger), nil
}

// NewWithModel wraps an already-built eino chat model.
func NewWithModel(m model.BaseChatModel, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, model: m, logger: logger}
}

func (c *Client) Provider() string     { return "eino" }
func (c *Client) Model() string        { return c.cfg.Model }
func (c *Client) Temperature() float32 { return c.cfg.Temperature }

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	msg, err := c.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		c.logger.Error("llm.eino.generate_error", "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", common.ExternalServiceError("eino chat model call failed", err)
	}
	if msg == nil {
		return "", common.ExternalServiceError("eino chat model returned no message", nil)
	}
	c.logger.Debug("llm.eino.generate_ok", "model", c.cfg.Model, "bytes", len(msg.Content),
		"elapsed_ms", time.Since(start).Milliseconds())
	return msg.Content, nil
}
