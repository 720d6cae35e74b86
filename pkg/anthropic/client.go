// Package anthropic provides the text-completion client used to generate the
// final recommendation.
package anthropic

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rmartg14/SIBI-2025-RMARTG14/internal/resilience"
)

// Completer is the single operation the recommendation composer needs from a
// language model: one prompt in, one text out.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config holds completion parameters.
type Config struct {
	Model       string
	MaxTokens   int64
	Temperature float64
	// RequestsPerMinute throttles outbound calls; zero disables the limiter.
	RequestsPerMinute int
}

// Client implements Completer over the official SDK.
type Client struct {
	client  sdk.Client
	cfg     Config
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Client with the given API key and completion config.
func NewClient(apiKey string, cfg Config) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "create_message")

	return &Client{
		client:  sdk.NewClient(option.WithAPIKey(apiKey)),
		cfg:     cfg,
		limiter: limiter,
		retry:   retry,
	}
}

// Complete sends the prompt as a single user message and returns the
// concatenated text blocks of the response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "anthropic: rate limit wait")
		}
	}

	msg, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*sdk.Message, error) {
		return c.client.Messages.New(ctx, sdk.MessageNewParams{
			Model:       sdk.Model(c.cfg.Model),
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: sdk.Float(c.cfg.Temperature),
			Messages: []sdk.MessageParam{
				sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
			},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "anthropic: create message")
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	zap.L().Debug("completion finished",
		zap.String("model", c.cfg.Model),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return text, nil
}
