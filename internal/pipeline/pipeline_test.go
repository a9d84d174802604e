package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lerrors "github.com/mrz1836/liftoff/internal/errors"
	"github.com/mrz1836/liftoff/internal/testutil"
)

// recordingStage fails when err is set and counts its invocations.
type recordingStage struct {
	name     StageName
	requires []Param
	err      error
	calls    int
	onRun    func(st *State)
}

func (s *recordingStage) Name() StageName   { return s.name }
func (s *recordingStage) Requires() []Param { return s.requires }

func (s *recordingStage) Run(_ context.Context, st *State) (StageOutput, error) {
	s.calls++
	if s.onRun != nil {
		s.onRun(st)
	}
	return StageOutput{Message: "ok"}, s.err
}

func makeStages(n, failAt int) ([]Stage, []*recordingStage) {
	stages := make([]Stage, 0, n)
	recs := make([]*recordingStage, 0, n)
	for i := 1; i <= n; i++ {
		rs := &recordingStage{name: StageName("stage-" + string(rune('a'+i-1)))}
		if i == failAt {
			rs.err = testutil.ErrMockStageFailed
		}
		stages = append(stages, rs)
		recs = append(recs, rs)
	}
	return stages, recs
}

func TestExecute_StopsAtFirstFailure(t *testing.T) {
	const n = 5
	for k := 1; k <= n; k++ {
		stages, recs := makeStages(n, k)
		run := NewRun("test", "", stages)

		err := New().Execute(context.Background(), run)

		require.ErrorIs(t, err, lerrors.ErrStageFailed)
		require.ErrorIs(t, err, testutil.ErrMockStageFailed)
		assert.Equal(t, k, run.Attempted(), "failure at %d", k)
		for i, rs := range recs {
			if i < k {
				assert.Equal(t, 1, rs.calls, "stage %d attempted", i+1)
			} else {
				assert.Zero(t, rs.calls, "stage %d never attempted", i+1)
			}
		}
		assert.False(t, run.Outcome.Success)
		assert.Equal(t, recs[k-1].name, run.Outcome.FailedStage)
		assert.False(t, run.Results[k-1].Success)
	}
}

func TestExecute_Success(t *testing.T) {
	stages, recs := makeStages(3, 0)
	run := NewRun("test", "1.0.0", stages)

	var started []StageName
	var finished []StageResult
	p := New(WithStageHooks(
		func(_ *Run, s StageName) { started = append(started, s) },
		func(_ *Run, r StageResult) { finished = append(finished, r) },
	))

	require.NoError(t, p.Execute(context.Background(), run))
	assert.True(t, run.Outcome.Success)
	assert.Len(t, run.Results, 3)
	assert.Equal(t, run.Stages, started)
	assert.Len(t, finished, 3)
	for _, rs := range recs {
		assert.Equal(t, 1, rs.calls)
	}

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}

func TestExecute_MissingParameterBeforeAnyStage(t *testing.T) {
	first := &recordingStage{name: StagePreflight}
	second := &recordingStage{name: StageBumpVersion, requires: []Param{ParamVersion}}
	run := NewRun("deliver", "  ", []Stage{first, second})

	err := New().Execute(context.Background(), run)

	require.ErrorIs(t, err, lerrors.ErrMissingParameter)
	assert.Zero(t, first.calls)
	assert.Zero(t, second.calls)
	assert.Zero(t, run.Attempted())
	assert.Equal(t, StageBumpVersion, run.Outcome.FailedStage)
}

func TestExecute_CleanupsRunOnFailure(t *testing.T) {
	var cleaned bool
	first := &recordingStage{name: "first", onRun: func(st *State) {
		st.OnCleanup(func() { cleaned = true })
	}}
	second := &recordingStage{name: "second", err: testutil.ErrMockStageFailed}

	err := New().Execute(context.Background(), NewRun("test", "", []Stage{first, second}))

	require.Error(t, err)
	assert.True(t, cleaned)
}

func TestExecute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := &recordingStage{name: "first", onRun: func(*State) { cancel() }}
	second := &recordingStage{name: "second"}
	run := NewRun("test", "", []Stage{first, second})

	err := New().Execute(ctx, run)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
}
