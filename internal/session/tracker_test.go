package session

import (
	"testing"

	"github.com/metalagman/credo/internal/requirements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() requirements.RequirementSet {
	return requirements.RequirementSet{
		Key: "AIRB_PD_Requirements",
		Fields: []requirements.FieldSpec{
			{FieldName: "default_definition", DisplayName: "Default Definition", Mandatory: true, FieldType: "free-text"},
			{FieldName: "include_macro_overlay", DisplayName: "Include Macroeconomic Overlay", Mandatory: false, FieldType: "boolean"},
			{FieldName: "target_variable", DisplayName: "Target Variable", Mandatory: true, FieldType: "free-text"},
		},
	}
}

func TestNewTrackerSeedsPendingFields(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())
	for _, name := range []string{"default_definition", "include_macro_overlay", "target_variable"} {
		state, ok := tracker.State(name)
		require.True(t, ok)
		assert.Equal(t, StatusPending, state.Status)
	}
	assert.Empty(t, tracker.UserSpecs())
}

func TestRecordAnswerTransitions(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())

	value, err := tracker.RecordAnswer("default_definition", "90 DPD")
	require.NoError(t, err)
	assert.Equal(t, "90 DPD", value.Raw())

	state, _ := tracker.State("default_definition")
	assert.Equal(t, StatusProvided, state.Status)

	// revising an answered field marks it clarified
	_, err = tracker.RecordAnswer("default_definition", "90 DPD or bankruptcy")
	require.NoError(t, err)
	state, _ = tracker.State("default_definition")
	assert.Equal(t, StatusClarified, state.Status)
	assert.Equal(t, "90 DPD or bankruptcy", state.Value.Raw())

	_, err = tracker.RecordAnswer("default_definition", "90+ DPD")
	require.NoError(t, err)
	state, _ = tracker.State("default_definition")
	assert.Equal(t, StatusClarified, state.Status)
}

func TestRecordAnswerUnknownField(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())
	_, err := tracker.RecordAnswer("nope", "x")

	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.Field)
}

func TestRecordAnswerBooleanCoercion(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())

	for raw, want := range map[string]bool{
		"yes": true, "Y": true, "TRUE": true, "1": true,
		"no": false, "n": false, "False": false, "0": false,
	} {
		value, err := tracker.RecordAnswer("include_macro_overlay", raw)
		require.NoError(t, err, "raw %q", raw)
		assert.Equal(t, want, value.Raw(), "raw %q", raw)
	}

	_, err := tracker.RecordAnswer("include_macro_overlay", "no")
	require.NoError(t, err)
	_, err = tracker.RecordAnswer("include_macro_overlay", "maybe")
	require.Error(t, err)

	// a failed coercion must not reset the prior value
	state, _ := tracker.State("include_macro_overlay")
	assert.NotEqual(t, StatusPending, state.Status)
	assert.Equal(t, false, state.Value.Raw())
}

func TestNextPendingMandatoryFirst(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())

	spec, ok := tracker.NextPending()
	require.True(t, ok)
	assert.Equal(t, "default_definition", spec.FieldName)

	_, err := tracker.RecordAnswer("default_definition", "90 DPD")
	require.NoError(t, err)

	// target_variable is mandatory, so it precedes the earlier-declared optional field
	spec, ok = tracker.NextPending()
	require.True(t, ok)
	assert.Equal(t, "target_variable", spec.FieldName)

	_, err = tracker.RecordAnswer("target_variable", "default_flag_12m")
	require.NoError(t, err)

	spec, ok = tracker.NextPending()
	require.True(t, ok)
	assert.Equal(t, "include_macro_overlay", spec.FieldName)

	_, err = tracker.RecordAnswer("include_macro_overlay", "no")
	require.NoError(t, err)

	_, ok = tracker.NextPending()
	assert.False(t, ok)
}

func TestCompletionStatus(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())

	cs := tracker.Completion()
	assert.Equal(t, 2, cs.MandatoryTotal)
	assert.Equal(t, 1, cs.OptionalTotal)
	assert.False(t, cs.AllMandatory)
	assert.False(t, cs.AllComplete)

	_, err := tracker.RecordAnswer("default_definition", "90 DPD")
	require.NoError(t, err)
	_, err = tracker.RecordAnswer("target_variable", "default_flag_12m")
	require.NoError(t, err)

	cs = tracker.Completion()
	assert.True(t, cs.AllMandatory)
	assert.False(t, cs.AllComplete, "optional field still pending")

	_, err = tracker.RecordAnswer("include_macro_overlay", "yes")
	require.NoError(t, err)

	cs = tracker.Completion()
	assert.True(t, cs.AllMandatory)
	assert.True(t, cs.AllComplete)
}

func TestAllCompleteImpliesAllMandatory(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())
	_, _ = tracker.RecordAnswer("include_macro_overlay", "yes")

	cs := tracker.Completion()
	assert.False(t, cs.AllComplete)
	assert.False(t, cs.AllMandatory)
	if cs.AllComplete {
		assert.True(t, cs.AllMandatory)
	}
}

func TestResetKeepsRequirementSet(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())
	_, err := tracker.RecordAnswer("default_definition", "90 DPD")
	require.NoError(t, err)

	tracker.Reset()

	state, ok := tracker.State("default_definition")
	require.True(t, ok)
	assert.Equal(t, StatusPending, state.Status)
	assert.Equal(t, 3, tracker.Set().Len())
	assert.Empty(t, tracker.UserSpecs())
}

func TestReplayFromDraft(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(testSet())
	tracker.Replay(map[string]any{
		"default_definition":    "90 DPD",
		"include_macro_overlay": true,
		"from_other_config":     "ignored",
	})

	cs := tracker.Completion()
	assert.Equal(t, 1, cs.MandatoryDone)
	assert.Equal(t, 1, cs.OptionalDone)

	state, _ := tracker.State("include_macro_overlay")
	assert.Equal(t, StatusProvided, state.Status)
	assert.Equal(t, true, state.Value.Raw())

	spec, ok := tracker.NextPending()
	require.True(t, ok)
	assert.Equal(t, "target_variable", spec.FieldName)
}

func TestSessionCollected(t *testing.T) {
	t.Parallel()

	sess := New(Header{ModelType: "PD", Portfolio: "Retail", Purpose: "AIRB"})
	tracker := NewTracker(testSet())
	_, err := tracker.RecordAnswer("default_definition", "90 DPD")
	require.NoError(t, err)

	header, specs := sess.Collected(tracker)
	assert.Equal(t, map[string]any{
		"model_type": "PD",
		"portfolio":  "Retail",
		"purpose":    "AIRB",
	}, header)
	assert.Equal(t, map[string]any{"default_definition": "90 DPD"}, specs)
	assert.NotEqual(t, sess.ID.String(), "")
}
