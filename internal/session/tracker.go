package session

import (
	"fmt"

	"github.com/metalagman/credo/internal/requirements"
	"github.com/rs/zerolog/log"
)

// Status is the lifecycle state of one field within a session.
type Status string

// Field statuses. A field starts pending, becomes provided on the first
// accepted answer, and clarified when revised afterwards.
const (
	StatusPending   Status = "pending"
	StatusProvided  Status = "provided"
	StatusClarified Status = "clarified"
)

// FieldState is the tracked state of one field.
type FieldState struct {
	FieldName string
	Value     Value
	Status    Status
}

// UnknownFieldError reports an answer for a field the active requirement set
// does not define.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q for the active configuration", e.Field)
}

// CompletionStatus is derived from the tracker on demand and never stored.
type CompletionStatus struct {
	MandatoryDone  int  `json:"mandatory_done"`
	MandatoryTotal int  `json:"mandatory_total"`
	OptionalDone   int  `json:"optional_done"`
	OptionalTotal  int  `json:"optional_total"`
	AllMandatory   bool `json:"all_mandatory_complete"`
	AllComplete    bool `json:"all_complete"`
}

// Tracker is the per-session field completion state machine. One instance per
// active configuration; not safe for concurrent use.
type Tracker struct {
	set    requirements.RequirementSet
	states map[string]*FieldState
}

// NewTracker seeds a tracker with one pending state per field in the set.
func NewTracker(set requirements.RequirementSet) *Tracker {
	t := &Tracker{set: set}
	t.Reset()
	return t
}

// Set returns the active requirement set.
func (t *Tracker) Set() requirements.RequirementSet {
	return t.set
}

// Reset returns every field to pending and clears values. The requirement set
// is retained.
func (t *Tracker) Reset() {
	t.states = make(map[string]*FieldState, t.set.Len())
	for _, f := range t.set.Fields {
		t.states[f.FieldName] = &FieldState{FieldName: f.FieldName, Status: StatusPending}
	}
}

// RecordAnswer accepts a raw answer for a field, coerces it, and advances the
// field's status. Returns the accepted value.
func (t *Tracker) RecordAnswer(field string, raw any) (Value, error) {
	spec, ok := t.set.Field(field)
	if !ok {
		return Value{}, &UnknownFieldError{Field: field}
	}
	value, err := Coerce(spec, raw)
	if err != nil {
		return Value{}, err
	}
	state := t.states[field]
	if state.Status == StatusPending {
		state.Status = StatusProvided
	} else {
		state.Status = StatusClarified
	}
	state.Value = value
	return value, nil
}

// NextPending returns the first pending field: mandatory fields before
// optional, ties broken by declaration order. ok is false when no field is
// pending.
func (t *Tracker) NextPending() (requirements.FieldSpec, bool) {
	for _, mandatory := range []bool{true, false} {
		for _, f := range t.set.Fields {
			if f.Mandatory != mandatory {
				continue
			}
			if t.states[f.FieldName].Status == StatusPending {
				return f, true
			}
		}
	}
	return requirements.FieldSpec{}, false
}

// State returns the tracked state for a field.
func (t *Tracker) State(field string) (FieldState, bool) {
	s, ok := t.states[field]
	if !ok {
		return FieldState{}, false
	}
	return *s, true
}

// Completion computes the current completion status.
func (t *Tracker) Completion() CompletionStatus {
	var cs CompletionStatus
	for _, f := range t.set.Fields {
		done := t.states[f.FieldName].Status != StatusPending
		if f.Mandatory {
			cs.MandatoryTotal++
			if done {
				cs.MandatoryDone++
			}
		} else {
			cs.OptionalTotal++
			if done {
				cs.OptionalDone++
			}
		}
	}
	cs.AllMandatory = cs.MandatoryDone == cs.MandatoryTotal
	cs.AllComplete = cs.AllMandatory && cs.OptionalDone == cs.OptionalTotal
	return cs
}

// UserSpecs returns field name -> raw value for every field that has left
// pending, in the shape persisted into drafts and contracts.
func (t *Tracker) UserSpecs() map[string]any {
	specs := map[string]any{}
	for _, f := range t.set.Fields {
		state := t.states[f.FieldName]
		if state.Status != StatusPending {
			specs[f.FieldName] = state.Value.Raw()
		}
	}
	return specs
}

// Replay re-seeds the tracker from previously persisted user specs so a new
// process can resume a session. Unknown fields are ignored; a value that no
// longer coerces is left pending and will be asked again.
func (t *Tracker) Replay(userSpecs map[string]any) {
	for _, f := range t.set.Fields {
		raw, ok := userSpecs[f.FieldName]
		if !ok {
			continue
		}
		if _, err := t.RecordAnswer(f.FieldName, raw); err != nil {
			log.Debug().Err(err).Str("field", f.FieldName).Msg("skipping stale draft value")
		}
	}
}
