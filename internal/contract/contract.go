// Package contract compiles collected answers into immutable final contracts.
package contract

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var requiredHeaderKeys = []string{"model_type", "portfolio", "purpose"}

// InvalidHeaderError reports the header keys missing or empty at compile time.
type InvalidHeaderError struct {
	Missing []string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("missing required header fields: %s", strings.Join(e.Missing, ", "))
}

// FinalContract is the validated, frozen snapshot of a draft.
type FinalContract struct {
	Header    map[string]any `json:"header"`
	UserSpecs map[string]any `json:"user_specs"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Compile validates the header and freezes the inputs into a contract. The
// inputs are copied; later mutation of the source maps does not leak into the
// contract. The draft itself is never touched.
func Compile(header, userSpecs map[string]any) (FinalContract, error) {
	var missing []string
	for _, key := range requiredHeaderKeys {
		if empty(header[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return FinalContract{}, &InvalidHeaderError{Missing: missing}
	}
	c := FinalContract{
		Header:    map[string]any{},
		UserSpecs: map[string]any{},
	}
	maps.Copy(c.Header, header)
	maps.Copy(c.UserSpecs, userSpecs)
	return c, nil
}

func empty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// Filename derives the auto-generated contract filename from the header
// triple and a timestamp, spaces replaced so the name is shell-safe.
func Filename(c FinalContract, now time.Time) string {
	return fmt.Sprintf("final_contract_%s_%s_%s_%s.json",
		headerToken(c, "model_type"),
		headerToken(c, "portfolio"),
		headerToken(c, "purpose"),
		now.Format("20060102_150405"))
}

func headerToken(c FinalContract, key string) string {
	v, ok := c.Header[key]
	if !ok || v == nil {
		return "UNKNOWN"
	}
	return strings.ReplaceAll(fmt.Sprint(v), " ", "_")
}

// Persist serializes the contract into dir. When filename is empty a fresh
// timestamped name is derived, so each call produces a new artifact; an
// explicit filename is reused as-is and does overwrite. Returns the absolute
// path written.
func Persist(c FinalContract, dir, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if filename == "" {
		filename = Filename(c, time.Now())
	}
	path := filepath.Join(dir, filename)
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode contract: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write contract %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
