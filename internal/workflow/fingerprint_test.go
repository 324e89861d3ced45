package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintDeterministic(t *testing.T) {
	input := map[string]any{
		"description": "bronze ceremonial dagger",
		"site":        map[string]any{"lat": 31.7, "lon": 35.2},
		"tags":        []any{"bronze", "weapon"},
	}

	first := Fingerprint("classify", input)
	second := Fingerprint("classify", input)
	assert.Equal(t, first, second)
	assert.Contains(t, first, "archaeovault:step:classify:")
}

func TestFingerprintIgnoresKeyOrder(t *testing.T) {
	a := map[string]any{
		"description": "obsidian blade",
		"context":     map[string]any{"layer": "III", "grid": "B4"},
	}
	b := map[string]any{
		"context":     map[string]any{"grid": "B4", "layer": "III"},
		"description": "obsidian blade",
	}

	assert.Equal(t, Fingerprint("classify", a), Fingerprint("classify", b))
}

func TestFingerprintVariesByStepAndInput(t *testing.T) {
	input := map[string]any{"description": "clay tablet"}

	assert.NotEqual(t, Fingerprint("classify", input), Fingerprint("date", input))
	assert.NotEqual(t,
		Fingerprint("classify", input),
		Fingerprint("classify", map[string]any{"description": "clay bowl"}))
}

func TestFingerprintEmptyInput(t *testing.T) {
	assert.Equal(t,
		Fingerprint("classify", map[string]any{}),
		Fingerprint("classify", map[string]any{}))
}
