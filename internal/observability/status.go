package observability

import (
	"sync"
	"time"
)

type Phase string

const (
	PhaseIdle    Phase = "IDLE"
	PhaseRunning Phase = "RUNNING"
	PhaseWaiting Phase = "WAITING"
)

type SystemStatus struct {
	mu             sync.RWMutex
	CurrentPhase   Phase
	ActiveWorkflow string
	ActiveStep     string
	LastHeartbeat  time.Time
}

var globalStatus = &SystemStatus{
	CurrentPhase:  PhaseIdle,
	LastHeartbeat: time.Now(),
}

// SetActive marks a workflow step as currently executing.
func SetActive(workflow, step string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.CurrentPhase = PhaseRunning
	globalStatus.ActiveWorkflow = workflow
	globalStatus.ActiveStep = step
}

// SetWaiting marks the coordinator as backing off before a retry.
func SetWaiting(workflow, step string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.CurrentPhase = PhaseWaiting
	globalStatus.ActiveWorkflow = workflow
	globalStatus.ActiveStep = step
}

// SetIdle clears the active workflow.
func SetIdle() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.CurrentPhase = PhaseIdle
	globalStatus.ActiveWorkflow = ""
	globalStatus.ActiveStep = ""
}

// GetStatus retrieves a copy of the global system status.
func GetStatus() (Phase, string, string, time.Time) {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.CurrentPhase, globalStatus.ActiveWorkflow, globalStatus.ActiveStep, globalStatus.LastHeartbeat
}

// Heartbeat updates the last heartbeat time.
func Heartbeat() {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.LastHeartbeat = time.Now()
}
