package workflow

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint derives the deterministic cache key for a (step, input) pair.
// The input is rendered as canonical JSON first so that logically equal
// inputs always map to the same key regardless of map iteration or source
// key order.
func Fingerprint(step string, input map[string]any) string {
	h := sha256.New()
	h.Write([]byte(step))
	h.Write([]byte{0})
	h.Write([]byte(canonicalJSON(input)))
	return fmt.Sprintf("archaeovault:step:%s:%s", step, hex.EncodeToString(h.Sum(nil)))
}

// canonicalJSON renders a value with object keys sorted at every level.
func canonicalJSON(v any) string {
	var b strings.Builder
	writeCanonical(&b, v)
	return b.String()
}

func writeCanonical(b *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONScalar(b, k)
			b.WriteByte(':')
			writeCanonical(b, val[k])
		}
		b.WriteByte('}')
	case []any:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, item)
		}
		b.WriteByte(']')
	default:
		writeJSONScalar(b, val)
	}
}

func writeJSONScalar(b *strings.Builder, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable scalars fall back to their Go formatting; the
		// fingerprint only needs determinism, not reversibility.
		data = []byte(fmt.Sprintf("%q", fmt.Sprint(v)))
	}
	b.Write(data)
}
