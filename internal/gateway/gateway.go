package gateway

import (
	"context"

	"github.com/archaeovault/archaeovault/internal/workflow"
)

// Runner is the workflow entry point a gateway drives.
type Runner interface {
	Run(ctx context.Context, req workflow.Request) (*workflow.Result, error)
	Workflows() []string
}

// Messenger defines the interface for communication gateways (Telegram, HTTP, etc.)
type Messenger interface {
	// Start begins the message listening loop
	Start() error
	// Send sends a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}
