// Package session holds the per-session field completion state machine.
package session

import "github.com/google/uuid"

// Header is the configuration triple selected for a session.
type Header struct {
	ModelType string `json:"model_type"`
	Portfolio string `json:"portfolio"`
	Purpose   string `json:"purpose"`
}

// Map returns the header as a generic mapping, the shape used by drafts and
// contracts.
func (h Header) Map() map[string]any {
	return map[string]any{
		"model_type": h.ModelType,
		"portfolio":  h.Portfolio,
		"purpose":    h.Purpose,
	}
}

// Session is an explicit value identifying one interactive completion run.
// The engine keeps no state behind it besides the resolver's document cache.
type Session struct {
	ID     uuid.UUID
	Header Header
}

// New creates a session for the given header.
func New(header Header) Session {
	return Session{ID: uuid.New(), Header: header}
}

// Collected returns the header mapping plus the user specs gathered so far
// by the tracker, the inputs to contract compilation.
func (s Session) Collected(t *Tracker) (header, userSpecs map[string]any) {
	return s.Header.Map(), t.UserSpecs()
}
