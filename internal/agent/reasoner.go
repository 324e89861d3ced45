package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/archaeovault/archaeovault/internal/observability"
)

// ErrInvalidResponse marks output from the reasoning model that could not be
// parsed into the expected structured form.
var ErrInvalidResponse = errors.New("invalid response from reasoning model")

// Completion is the parsed result of one reasoning exchange.
type Completion struct {
	Payload    map[string]any
	Confidence float64
	Raw        string
}

// ReasonerConfig tunes the shared reasoning client.
type ReasonerConfig struct {
	ModelName   string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Reasoner is the shared client every agent funnels its single reasoning
// call through. It owns prompt assembly mechanics, the request timeout and
// response parsing; agents own prompt content.
type Reasoner struct {
	model  llms.Model
	cfg    ReasonerConfig
	logger *observability.Logger
}

func NewReasoner(model llms.Model, cfg ReasonerConfig, logger *observability.Logger) *Reasoner {
	return &Reasoner{
		model:  model,
		cfg:    cfg,
		logger: logger,
	}
}

// Complete performs exactly one exchange with the reasoning model and parses
// the structured JSON payload out of its reply. The payload must carry a
// confidence field in [0,1]; it is lifted out of the payload into the
// Completion.
func (r *Reasoner) Complete(ctx context.Context, step, systemPrompt, userPrompt string) (*Completion, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	var messages []llms.MessageContent
	if systemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(userPrompt),
		},
	})

	opts := []llms.CallOption{
		llms.WithTemperature(r.cfg.Temperature),
	}
	if r.cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(r.cfg.MaxTokens))
	}

	resp, err := r.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choice list", ErrInvalidResponse)
	}

	content := resp.Choices[0].Content
	if r.logger != nil {
		r.logger.LogLLM(RunIDFrom(ctx), step, r.cfg.ModelName, userPrompt, content)
	}

	payload, err := extractJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	conf, ok := payload["confidence"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: missing confidence field", ErrInvalidResponse)
	}
	if conf < 0 || conf > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidResponse, conf)
	}
	delete(payload, "confidence")

	return &Completion{
		Payload:    payload,
		Confidence: conf,
		Raw:        content,
	}, nil
}

// extractJSON pulls the first JSON object out of model output. Models often
// wrap the object in prose or a fenced code block.
func extractJSON(content string) (map[string]any, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object found")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(content[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse JSON object: %v", err)
	}
	return payload, nil
}
