package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mindcarehq/mindcare/internal/metrics"
	"github.com/mindcarehq/mindcare/internal/retry"
	"github.com/mindcarehq/mindcare/internal/traces"
)

// OpenAIClient talks to an OpenAI-compatible chat completion API.
// A single client is shared by the reply and scoring paths; each
// carries its own upstream name so latency is attributed correctly.
type OpenAIClient struct {
	client   *openai.Client
	model    string
	upstream string
	timeout  time.Duration
}

// OpenAIOptions configures an OpenAIClient.
type OpenAIOptions struct {
	APIKey   string
	BaseURL  string // optional override, e.g. a proxy or Azure endpoint
	Model    string
	Upstream string // metrics label: "reply" or "scoring"
	Timeout  time.Duration
}

// NewOpenAI builds a client. Returns ErrNotConfigured if no API key is set,
// so the caller can decide whether to run in degraded mode.
func NewOpenAI(opts OpenAIOptions) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, ErrNotConfigured
	}
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		model:    opts.Model,
		upstream: opts.Upstream,
		timeout:  timeout,
	}, nil
}

// Complete sends a chat completion request and returns the first choice's
// text. Transient upstream failures (5xx, 429) are retried twice with
// backoff; 4xx responses are not retried.
func (c *OpenAIClient) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := traces.StartSpan(ctx, "llm.complete",
		traces.Upstream(c.upstream), traces.Model(c.model))
	defer span.End()

	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	ccr := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	start := time.Now()
	var resp openai.ChatCompletionResponse
	err := retry.Do(ctx, 3, 500*time.Millisecond, func() error {
		var callErr error
		resp, callErr = c.client.CreateChatCompletion(ctx, ccr)
		if callErr == nil {
			return nil
		}
		if !isRetryable(callErr) {
			return retry.Permanent(callErr)
		}
		return callErr
	})
	metrics.LLMRequestDuration.WithLabelValues(c.upstream).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// isRetryable reports whether an upstream error is worth retrying.
// Rate limits and server errors are; everything else (bad request,
// auth failure, content policy rejection) is not.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	// Network-level errors (connection refused, reset) arrive untyped.
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
