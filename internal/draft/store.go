// Package draft persists in-progress answer drafts as JSON files.
package draft

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/metalagman/credo/internal/session"
)

// Draft is the durable record of collected header values and field answers.
type Draft struct {
	Header    map[string]any `json:"header"`
	UserSpecs map[string]any `json:"user_specs"`
	Meta      *Meta          `json:"meta,omitempty"`
}

// Meta carries bookkeeping written on every save.
type Meta struct {
	LastUpdated      string          `json:"last_updated"`
	SessionID        string          `json:"session_id,omitempty"`
	CompletionStatus *MetaCompletion `json:"completion_status,omitempty"`
}

// MetaCompletion is the persisted snapshot of mandatory completion.
type MetaCompletion struct {
	MandatoryComplete bool `json:"mandatory_complete"`
}

func emptyDraft() Draft {
	return Draft{Header: map[string]any{}, UserSpecs: map[string]any{}}
}

// Store reads and writes one draft file. Single writer per path is assumed;
// the store performs no locking.
type Store struct {
	path string
}

// NewStore creates a store bound to the given draft file path, creating the
// parent directory if needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create draft dir: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the draft file path.
func (s *Store) Path() string {
	return s.path
}

// SavePointPath derives a uniquely timestamped sibling path for save-point
// copies of the current draft.
func (s *Store) SavePointPath(now time.Time) string {
	dir := filepath.Dir(s.path)
	base := strings.TrimSuffix(filepath.Base(s.path), filepath.Ext(s.path))
	return filepath.Join(dir, fmt.Sprintf("%s_%s.json", base, now.Format("20060102_150405")))
}

// Load reads the draft. A missing file yields an empty draft; a file that is
// not a well-formed draft mapping is an error.
func (s *Store) Load() (Draft, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyDraft(), nil
		}
		return Draft{}, fmt.Errorf("read draft %s: %w", s.path, err)
	}
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("parse draft %s: %w", s.path, err)
	}
	if d.Header == nil {
		d.Header = map[string]any{}
	}
	if d.UserSpecs == nil {
		d.UserSpecs = map[string]any{}
	}
	return d, nil
}

// Save overwrites the draft file with d plus a fresh last-updated timestamp
// and, when completion is given, the mandatory-completion snapshot. A session
// id already present on the draft is carried forward.
func (s *Store) Save(d Draft, completion *session.CompletionStatus) error {
	meta := &Meta{LastUpdated: time.Now().Format(time.RFC3339)}
	if d.Meta != nil {
		meta.SessionID = d.Meta.SessionID
	}
	if completion != nil {
		meta.CompletionStatus = &MetaCompletion{MandatoryComplete: completion.AllMandatory}
	}
	d.Meta = meta

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write draft %s: %w", s.path, err)
	}
	return nil
}

// StampSession records the session id into the draft meta. The first stamp
// wins; later calls against a stamped draft are no-ops so resumed sessions
// keep their original id.
func (s *Store) StampSession(id string) error {
	d, err := s.Load()
	if err != nil {
		return err
	}
	if d.Meta != nil && d.Meta.SessionID != "" {
		return nil
	}
	if d.Meta == nil {
		d.Meta = &Meta{}
	}
	d.Meta.SessionID = id
	return s.Save(d, nil)
}

// UpsertField merges header keys into the draft (last write wins per key,
// absent keys preserved), sets the field's value, and saves. This is the sole
// mutation primitive: repeated identical calls are idempotent modulo the
// last-updated timestamp.
func (s *Store) UpsertField(header map[string]any, field string, value any, completion *session.CompletionStatus) (Draft, error) {
	d, err := s.Load()
	if err != nil {
		return Draft{}, err
	}
	for k, v := range header {
		d.Header[k] = v
	}
	d.UserSpecs[field] = value
	if err := s.Save(d, completion); err != nil {
		return Draft{}, err
	}
	return d, nil
}
