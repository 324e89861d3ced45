package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel replays a scripted reply and remembers the last request.
type fakeModel struct {
	reply    string
	err      error
	messages []llms.MessageContent
	calls    int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	if f.err != nil {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func newTestReasoner(model llms.Model) *Reasoner {
	return NewReasoner(model, ReasonerConfig{
		ModelName:   "test-model",
		Temperature: 0.7,
		MaxTokens:   4000,
	}, nil)
}

func TestCompleteParsesBareJSON(t *testing.T) {
	model := &fakeModel{reply: `{"material": "bone", "type": "needle", "confidence": 0.92}`}
	r := newTestReasoner(model)

	c, err := r.Complete(context.Background(), "classify", "You are a classifier.", "Classify: bone needle")
	require.NoError(t, err)
	assert.Equal(t, 0.92, c.Confidence)
	assert.Equal(t, "bone", c.Payload["material"])
	assert.NotContains(t, c.Payload, "confidence", "confidence is lifted out of the payload")
	assert.Equal(t, 1, model.calls)

	// System prompt goes out as its own message ahead of the user prompt.
	require.Len(t, model.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, model.messages[1].Role)
}

func TestCompleteParsesFencedJSON(t *testing.T) {
	model := &fakeModel{reply: "Here is the analysis:\n```json\n{\"material\": \"ceramic\", \"confidence\": 0.8}\n```\nLet me know if you need more."}
	r := newTestReasoner(model)

	c, err := r.Complete(context.Background(), "classify", "", "Classify: amphora")
	require.NoError(t, err)
	assert.Equal(t, "ceramic", c.Payload["material"])
	assert.Equal(t, 0.8, c.Confidence)
}

func TestCompleteRejectsNonJSON(t *testing.T) {
	model := &fakeModel{reply: "I cannot classify this artifact."}
	r := newTestReasoner(model)

	_, err := r.Complete(context.Background(), "classify", "", "Classify: mystery object")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCompleteRejectsBadConfidence(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"missing", `{"material": "bone"}`},
		{"non-numeric", `{"material": "bone", "confidence": "high"}`},
		{"negative", `{"material": "bone", "confidence": -0.1}`},
		{"above one", `{"material": "bone", "confidence": 1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestReasoner(&fakeModel{reply: tt.reply})
			_, err := r.Complete(context.Background(), "classify", "", "x")
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestCompletePropagatesModelError(t *testing.T) {
	upstream := errors.New("api: rate limited")
	r := newTestReasoner(&fakeModel{err: upstream})

	_, err := r.Complete(context.Background(), "classify", "", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)
	assert.NotErrorIs(t, err, ErrInvalidResponse)
}

func TestCompleteAppliesTimeout(t *testing.T) {
	model := &fakeModel{reply: `{"confidence": 0.5}`}
	r := NewReasoner(model, ReasonerConfig{Timeout: time.Nanosecond}, nil)

	time.Sleep(time.Millisecond)
	_, err := r.Complete(context.Background(), "classify", "", "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
