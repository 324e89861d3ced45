package agent

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptManager_Get(t *testing.T) {
	tempDir := t.TempDir()

	files := map[string]string{
		"_preamble.md":         "Site Preamble",
		"artifact_analysis.md": "Custom Classifier Prompt",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tempDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	pm := NewPromptManager(tempDir)

	// Override file wins over the built-in default.
	prompt := pm.Get("artifact_analysis")
	if !strings.Contains(prompt, "Custom Classifier Prompt") {
		t.Errorf("Prompt missing override content: %s", prompt)
	}
	if !strings.Contains(prompt, "Site Preamble") {
		t.Errorf("Prompt missing preamble: %s", prompt)
	}
	if strings.Index(prompt, "Site Preamble") >= strings.Index(prompt, "Custom Classifier Prompt") {
		t.Error("Preamble should come before the agent prompt")
	}

	// No override file present: the built-in default is used.
	fallback := pm.Get("carbon_dating")
	if fallback == "" {
		t.Fatal("Expected built-in prompt for carbon_dating")
	}
	if !strings.Contains(fallback, "Site Preamble") {
		t.Errorf("Fallback prompt missing preamble: %s", fallback)
	}
	if !strings.Contains(fallback, defaultPrompts["carbon_dating"]) {
		t.Errorf("Fallback prompt missing default content")
	}
}

func TestPromptManager_NoDirectory(t *testing.T) {
	pm := NewPromptManager("")

	prompt := pm.Get("report_generation")
	if !strings.Contains(prompt, defaultPreamble) {
		t.Error("Expected default preamble without a prompt directory")
	}
	if !strings.Contains(prompt, defaultPrompts["report_generation"]) {
		t.Error("Expected built-in prompt without a prompt directory")
	}
}

func TestPromptManager_UnknownKey(t *testing.T) {
	pm := NewPromptManager("")
	prompt := pm.Get("no_such_agent")
	if prompt != defaultPreamble {
		t.Errorf("Unknown key should yield preamble only, got: %s", prompt)
	}
}
