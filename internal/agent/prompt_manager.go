package agent

import (
	"os"
	"path/filepath"
	"strings"
)

// PromptManager resolves the system prompt for each agent. A file named
// "<agent key>.md" in the prompt directory overrides the built-in default,
// and an optional "_preamble.md" is prepended to every prompt.
type PromptManager struct {
	Directory string
}

func NewPromptManager(dir string) *PromptManager {
	return &PromptManager{Directory: dir}
}

// Get returns the full system prompt for the given agent key.
func (pm *PromptManager) Get(key string) string {
	prompt := defaultPrompts[key]

	if pm.Directory != "" {
		path := filepath.Join(pm.Directory, key+".md")
		if data, err := os.ReadFile(path); err == nil {
			prompt = string(data)
		}
	}

	parts := []string{}
	if preamble := pm.preamble(); preamble != "" {
		parts = append(parts, preamble)
	}
	if prompt != "" {
		parts = append(parts, prompt)
	}

	return strings.Join(parts, "\n\n---\n\n")
}

func (pm *PromptManager) preamble() string {
	if pm.Directory == "" {
		return defaultPreamble
	}
	path := filepath.Join(pm.Directory, "_preamble.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultPreamble
	}
	return string(data)
}
