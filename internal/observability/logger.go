package observability

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// EventType defines the category of the log event.
type EventType string

const (
	EventTypeWorkflow    EventType = "workflow"
	EventTypeStep        EventType = "step"
	EventTypeCache       EventType = "cache"
	EventTypeLLM         EventType = "llm"
	EventTypeFetch       EventType = "fetch"
	EventTypePolicyCheck EventType = "policy_check"
	EventTypeHeartbeat   EventType = "heartbeat"
)

// Event represents a structured log entry.
type Event struct {
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id,omitempty"`
	Workflow  string    `json:"workflow,omitempty"`
	Step      string    `json:"step,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Logger handles structured logging.
type Logger struct {
	llmLogPath string
	maxSize    int64
}

func NewLogger() *Logger {
	return &Logger{
		llmLogPath: filepath.Join("logs", "llm.jsonl"),
		maxSize:    10 * 1024 * 1024, // 10MB
	}
}

// Log emits a structured JSON event to stdout.
func (l *Logger) Log(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}
	data, err := json.Marshal(evt)
	if err != nil {
		fmt.Printf("{\"error\": \"failed to marshal event: %v\"}\n", err)
		return
	}
	fmt.Println(string(data))

	if evt.Type == EventTypeLLM {
		l.writeToFile(data)
	}
}

func (l *Logger) writeToFile(data []byte) {
	if err := os.MkdirAll(filepath.Dir(l.llmLogPath), 0755); err != nil {
		log.Printf("failed to create log directory: %v", err)
		return
	}

	// Check size before writing
	info, err := os.Stat(l.llmLogPath)
	if err == nil && info.Size() > l.maxSize {
		l.rotateLogs()
	}

	f, err := os.OpenFile(l.llmLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("failed to open log file: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("failed to write to log file: %v", err)
	}
}

func (l *Logger) rotateLogs() {
	// Simple rotation: keep one .old file
	oldPath := l.llmLogPath + ".old"
	_ = os.Remove(oldPath)
	_ = os.Rename(l.llmLogPath, oldPath)
}

// Helper methods for common events

func (l *Logger) LogStep(runID, workflow, step, status string, attempts int) {
	l.Log(Event{
		Type:     EventTypeStep,
		RunID:    runID,
		Workflow: workflow,
		Step:     step,
		Data: map[string]any{
			"status":   status,
			"attempts": attempts,
		},
	})
}

func (l *Logger) LogCache(runID, step, outcome, key string) {
	l.Log(Event{
		Type:  EventTypeCache,
		RunID: runID,
		Step:  step,
		Data: map[string]string{
			"outcome": outcome,
			"key":     key,
		},
	})
}

func (l *Logger) LogWorkflow(runID, workflow string, succeeded, cached, failed, skipped int, elapsed time.Duration) {
	l.Log(Event{
		Type:     EventTypeWorkflow,
		RunID:    runID,
		Workflow: workflow,
		Data: map[string]any{
			"succeeded":  succeeded,
			"cached":     cached,
			"failed":     failed,
			"skipped":    skipped,
			"elapsed_ms": elapsed.Milliseconds(),
		},
	})
}

func (l *Logger) LogFetch(source, target string, size int, err error) {
	data := map[string]any{
		"source": source,
		"target": target,
		"bytes":  size,
	}
	if err != nil {
		data["error"] = err.Error()
	}
	l.Log(Event{Type: EventTypeFetch, Data: data})
}

func (l *Logger) LogPolicyCheck(source, target, effect, reason string) {
	l.Log(Event{
		Type: EventTypePolicyCheck,
		Data: map[string]string{
			"source": source,
			"target": target,
			"effect": effect,
			"reason": reason,
		},
	})
}

func (l *Logger) LogHeartbeat() {
	l.Log(Event{
		Type: EventTypeHeartbeat,
		Data: map[string]string{"status": "alive"},
	})
}

func (l *Logger) LogLLM(runID, step, model string, prompt any, response string) {
	l.Log(Event{
		Type:  EventTypeLLM,
		RunID: runID,
		Step:  step,
		Data: map[string]any{
			"model":    model,
			"prompt":   prompt,
			"response": response,
		},
	})
}
