package drafts_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/dplatten/gymtrack/internal/gymtrack/drafts"
	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/gymtrack/store"
	"github.com/dplatten/gymtrack/internal/gymtrack/tracker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestManager(t *testing.T, workouts []model.Workout) (*drafts.Manager, *MocksidecarUpdater) {
	t.Helper()
	ctrl := gomock.NewController(t)
	loader := NewMockworkoutLoader(ctrl)
	loader.EXPECT().LoadWorkouts(gomock.Any()).Return(workouts).AnyTimes()
	updater := NewMocksidecarUpdater(ctrl)
	return drafts.NewManager(loader, updater), updater
}

func TestManager_Begin_WorkoutNotFound(t *testing.T) {
	manager, _ := newTestManager(t, nil)
	_, err := manager.Begin(context.Background(), "no-such-workout")
	assert.ErrorIs(t, err, tracker.ErrWorkoutNotFound)
}

func TestManager_Begin_SeedsFromPersistedState(t *testing.T) {
	squat := model.NewExercise("Squat", 5, 3, 100)
	workout := model.NewWorkout("Leg Day", []model.Exercise{squat})
	workout.TrackingData[squat.ID] = model.ExerciseTracking{ID: "t1", Reps: 6, Sets: 3, Weight: 100}
	workout.AddedEntries[squat.ID] = []model.ExerciseTracking{
		{ID: "t2", Reps: 5, Sets: 3, Weight: 95},
	}

	manager, _ := newTestManager(t, []model.Workout{workout})
	session, err := manager.Begin(context.Background(), workout.ID)
	require.NoError(t, err)

	draft, ok := session.Draft(squat.ID)
	require.True(t, ok)
	assert.Equal(t, 6, draft.Reps)
	assert.Equal(t, 100.0, draft.Weight)

	committed := session.Committed(squat.ID)
	require.Len(t, committed, 1)
	assert.Equal(t, "t2", committed[0].ID)
}

func TestSession_DraftCommitCycle(t *testing.T) {
	squat := model.NewExercise("Squat", 5, 3, 100)
	workout := model.NewWorkout("Leg Day", []model.Exercise{squat})

	manager, _ := newTestManager(t, []model.Workout{workout})
	session, err := manager.Begin(context.Background(), workout.ID)
	require.NoError(t, err)

	// fresh draft starts zero-valued
	draft, ok := session.Draft(squat.ID)
	require.True(t, ok)
	assert.NotEmpty(t, draft.ID)
	assert.Zero(t, draft.Reps)
	assert.Zero(t, draft.Weight)

	session.UpdateDraft(squat.ID, func(t *model.ExerciseTracking) {
		t.Reps = 5
		t.Sets = 3
		t.Weight = 105
	})
	draft, _ = session.Draft(squat.ID)
	assert.Equal(t, 105.0, draft.Weight)

	committed, err := session.CommitDraft(squat.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, committed.ID)
	assert.Equal(t, 105.0, committed.Weight)

	// commit resets the draft to a fresh zero-valued one
	reset, _ := session.Draft(squat.ID)
	assert.NotEqual(t, committed.ID, reset.ID)
	assert.Zero(t, reset.Reps)
	assert.Zero(t, reset.Weight)

	// commits are append-only, a second identical commit appears twice
	_, err = session.CommitDraft(squat.ID)
	require.NoError(t, err)
	assert.Len(t, session.Committed(squat.ID), 2)
}

func TestSession_UnknownExercise(t *testing.T) {
	squat := model.NewExercise("Squat", 5, 3, 100)
	workout := model.NewWorkout("Leg Day", []model.Exercise{squat})

	manager, _ := newTestManager(t, []model.Workout{workout})
	session, err := manager.Begin(context.Background(), workout.ID)
	require.NoError(t, err)

	mutated := false
	session.UpdateDraft("no-such-exercise", func(*model.ExerciseTracking) {
		mutated = true
	})
	assert.False(t, mutated)

	_, ok := session.Draft("no-such-exercise")
	assert.False(t, ok)

	_, err = session.CommitDraft("no-such-exercise")
	assert.ErrorIs(t, err, tracker.ErrExerciseNotFound)
}

func TestSession_Flush(t *testing.T) {
	squat := model.NewExercise("Squat", 5, 3, 100)
	workout := model.NewWorkout("Leg Day", []model.Exercise{squat})

	manager, updater := newTestManager(t, []model.Workout{workout})
	session, err := manager.Begin(context.Background(), workout.ID)
	require.NoError(t, err)

	session.UpdateDraft(squat.ID, func(t *model.ExerciseTracking) {
		t.Weight = 110
	})
	_, err = session.CommitDraft(squat.ID)
	require.NoError(t, err)

	updater.EXPECT().
		UpdateWorkoutSidecar(gomock.Any(), workout.ID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(
			_ context.Context,
			_ string,
			trackingData map[string]model.ExerciseTracking,
			addedEntries map[string][]model.ExerciseTracking,
		) error {
			require.Contains(t, trackingData, squat.ID)
			assert.Zero(t, trackingData[squat.ID].Weight)
			require.Len(t, addedEntries[squat.ID], 1)
			assert.Equal(t, 110.0, addedEntries[squat.ID][0].Weight)
			return nil
		}).Times(1)

	require.NoError(t, session.Flush(context.Background()))
}

// full cycle against the real file-backed store
func TestSession_FlushRoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	fileStore, err := store.NewFileStore(dataDir)
	require.NoError(t, err)

	ctx := context.Background()
	trackingStore := tracker.NewStore(ctx, fileStore)
	exercise := trackingStore.AddExercise(ctx, "Squat", 5, 3, 100)
	workout, err := trackingStore.AddWorkout(ctx, "Leg Day", []string{exercise.ID})
	require.NoError(t, err)

	manager := drafts.NewManager(fileStore, trackingStore)
	session, err := manager.Begin(ctx, workout.ID)
	require.NoError(t, err)

	session.UpdateDraft(exercise.ID, func(t *model.ExerciseTracking) {
		t.Reps = 5
		t.Sets = 3
		t.Weight = 102.5
	})
	_, err = session.CommitDraft(exercise.ID)
	require.NoError(t, err)
	require.NoError(t, session.Flush(ctx))

	// a fresh store sees the flushed sidecar
	reloaded := tracker.NewStore(ctx, fileStore)
	stored, err := reloaded.Workout(workout.ID)
	require.NoError(t, err)
	require.Len(t, stored.AddedEntries[exercise.ID], 1)
	assert.Equal(t, 102.5, stored.AddedEntries[exercise.ID][0].Weight)
	require.Contains(t, stored.TrackingData, exercise.ID)
	assert.Zero(t, stored.TrackingData[exercise.ID].Weight)
}
