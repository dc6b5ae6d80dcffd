package drafts_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dplatten/gymtrack/internal/gymtrack/drafts"
	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/gymtrack/store"
	"github.com/dplatten/gymtrack/internal/gymtrack/tracker"
)

type handlerTestSetup struct {
	router   *mux.Router
	store    *tracker.Store
	workout  *model.Workout
	exercise *model.Exercise
}

func newHandlerTestSetup(t *testing.T) handlerTestSetup {
	t.Helper()
	fileStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	trackingStore := tracker.NewStore(ctx, fileStore)
	exercise := trackingStore.AddExercise(ctx, "Squat", 5, 3, 100)
	workout, err := trackingStore.AddWorkout(ctx, "Leg Day", []string{exercise.ID})
	require.NoError(t, err)

	router := mux.NewRouter()
	handler := drafts.NewHandler(drafts.NewManager(fileStore, trackingStore))
	handler.SetupRoutes(router)

	return handlerTestSetup{
		router:   router,
		store:    trackingStore,
		workout:  workout,
		exercise: exercise,
	}
}

func (s handlerTestSetup) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(bodyJson))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_FullDraftCycle(t *testing.T) {
	setup := newHandlerTestSetup(t)
	workoutID := setup.workout.ID
	exerciseID := setup.exercise.ID

	rec := setup.do(t, "POST", "/drafts/"+workoutID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	reps, sets, weight := 5, 3, 107.5
	draftTarget := fmt.Sprintf("/drafts/%s/%s", workoutID, exerciseID)
	rec = setup.do(t, "PUT", draftTarget, drafts.UpdateDraftRequest{
		Reps: &reps, Sets: &sets, Weight: &weight,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var state drafts.DraftStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, 107.5, state.Draft.Weight)
	assert.Empty(t, state.Committed)

	rec = setup.do(t, "POST", draftTarget+"/commit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Len(t, state.Committed, 1)
	assert.Equal(t, 107.5, state.Committed[0].Weight)
	// the draft was reset by the commit
	assert.Zero(t, state.Draft.Weight)

	// nothing reaches the stored workout before the flush
	stored, err := setup.store.Workout(workoutID)
	require.NoError(t, err)
	assert.Empty(t, stored.AddedEntries)

	rec = setup.do(t, "POST", "/drafts/"+workoutID+"/flush", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = setup.store.Workout(workoutID)
	require.NoError(t, err)
	require.Len(t, stored.AddedEntries[exerciseID], 1)
	assert.Equal(t, 107.5, stored.AddedEntries[exerciseID][0].Weight)
}

func TestHandler_GetDraft(t *testing.T) {
	setup := newHandlerTestSetup(t)
	workoutID := setup.workout.ID
	exerciseID := setup.exercise.ID

	// no session open yet
	rec := setup.do(t, "GET", fmt.Sprintf("/drafts/%s/%s", workoutID, exerciseID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = setup.do(t, "POST", "/drafts/"+workoutID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = setup.do(t, "GET", fmt.Sprintf("/drafts/%s/%s", workoutID, exerciseID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state drafts.DraftStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, workoutID, state.WorkoutID)

	rec = setup.do(t, "GET", fmt.Sprintf("/drafts/%s/no-such-exercise", workoutID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateDraftUnknownExercise(t *testing.T) {
	setup := newHandlerTestSetup(t)
	workoutID := setup.workout.ID

	rec := setup.do(t, "POST", "/drafts/"+workoutID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	weight := 107.5
	rec = setup.do(t, "PUT", fmt.Sprintf("/drafts/%s/no-such-exercise", workoutID), drafts.UpdateDraftRequest{
		Weight: &weight,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BeginUnknownWorkout(t *testing.T) {
	setup := newHandlerTestSetup(t)
	rec := setup.do(t, "POST", "/drafts/no-such-workout", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
