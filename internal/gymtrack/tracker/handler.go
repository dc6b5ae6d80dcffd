package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/telemetry/metrics"
	"github.com/dplatten/gymtrack/internal/telemetry/tracing"
	"github.com/dplatten/gymtrack/pkg"
)

type trackingStore interface {
	Exercises() []model.Exercise
	Workouts() []model.Workout
	Exercise(id string) (*model.Exercise, error)
	Workout(id string) (*model.Workout, error)
	AddExercise(ctx context.Context, name string, reps, sets int, weight float64) *model.Exercise
	DeleteExercise(ctx context.Context, id string) error
	AddWorkout(ctx context.Context, name string, exerciseIDs []string) (*model.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
	AddEntry(ctx context.Context, exerciseID, name string, reps, sets int, weight float64) (*model.ExerciseEntry, error)
	AppendEntry(ctx context.Context, exerciseID string, entry model.ExerciseEntry) error
	DeleteEntry(ctx context.Context, exerciseID, entryID string) error
	ClearExerciseEntries(ctx context.Context, exerciseID string) error
	TrackWorkout(ctx context.Context, workoutID string, trackingData map[string]model.ExerciseTracking) error
	AppendEntryToWorkoutExercise(ctx context.Context, workoutID, exerciseID string, entry model.ExerciseEntry) error
	ClearAllEntries(ctx context.Context, workoutID string) error
	UpdateWorkoutSidecar(
		ctx context.Context,
		workoutID string,
		trackingData map[string]model.ExerciseTracking,
		addedEntries map[string][]model.ExerciseTracking,
	) error
}

type AddExerciseRequest struct {
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Weight float64 `json:"weight"`
}

type AddWorkoutRequest struct {
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exerciseIds"`
}

type AddEntryRequest struct {
	Name   string  `json:"name"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Weight float64 `json:"weight"`
}

type TrackWorkoutRequest struct {
	TrackingData map[string]model.ExerciseTracking `json:"trackingData"`
}

type UpdateSidecarRequest struct {
	TrackingData map[string]model.ExerciseTracking   `json:"trackingData"`
	AddedEntries map[string][]model.ExerciseTracking `json:"addedEntries"`
}

type DeleteResponse struct {
	DeletedID string `json:"deletedId"`
}

type ClearEntriesResponse struct {
	ClearedID string `json:"clearedId"`
}

// entryInvalidator drops cached read-side reports after entry mutations.
type entryInvalidator interface {
	Invalidate(exerciseID string)
}

type Handler struct {
	store       trackingStore
	instr       *metrics.Manager
	invalidator entryInvalidator
}

func NewHandler(store trackingStore, instr *metrics.Manager, invalidator entryInvalidator) *Handler {
	return &Handler{
		store:       store,
		instr:       instr,
		invalidator: invalidator,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleAddExercise).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises", handler.HandleListExercises).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises/{id}", handler.HandleGetExercise).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleDeleteExercise).Methods("DELETE", "OPTIONS").Name("delete-exercise")
	r.HandleFunc("/exercises/{id}/entries", handler.HandleAddEntry).Methods("POST", "OPTIONS").Name("new-entry")
	r.HandleFunc("/exercises/{id}/entries", handler.HandleClearExerciseEntries).Methods("DELETE", "OPTIONS").Name("clear-entries")
	r.HandleFunc("/exercises/{id}/entries/{entryId}", handler.HandleDeleteEntry).Methods("DELETE", "OPTIONS").Name("delete-entry")

	r.HandleFunc("/workouts", handler.HandleAddWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", handler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", handler.HandleGetWorkout).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", handler.HandleDeleteWorkout).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/track", handler.HandleTrackWorkout).Methods("PUT", "OPTIONS").Name("track-workout")
	r.HandleFunc("/workouts/{id}/entries", handler.HandleClearAllEntries).Methods("DELETE", "OPTIONS").Name("clear-workout-entries")
	r.HandleFunc("/workouts/{id}/sidecar", handler.HandleUpdateSidecar).Methods("PUT", "OPTIONS").Name("update-workout-sidecar")
	r.HandleFunc("/workouts/{id}/exercises/{exerciseId}/entries", handler.HandleAddWorkoutEntry).
		Methods("POST", "OPTIONS").Name("new-workout-entry")
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.addExercise")
	defer span.End()

	var req AddExerciseRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}

	exercise := handler.store.AddExercise(ctx, req.Name, req.Reps, req.Sets, req.Weight)
	handler.instr.CounterExercisesAdded.Inc()

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("failed to marshal new exercise: %s", err)
		http.Error(w, "error, failed to add new exercise", http.StatusInternalServerError)
		return
	}

	log.Debugf("new exercise added: %s", exercise.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusCreated)
}

func (handler *Handler) HandleListExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.listExercises")
	defer span.End()

	exercisesJson, err := json.Marshal(handler.store.Exercises())
	if err != nil {
		log.Errorf("marshal exercises error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exercisesJson, http.StatusOK)
}

func (handler *Handler) HandleGetExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.getExercise")
	defer span.End()

	id := mux.Vars(r)["id"]
	exercise, err := handler.store.Exercise(id)
	if err != nil {
		log.Debugf("exercise %s not found", id)
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	exerciseJson, err := json.Marshal(exercise)
	if err != nil {
		log.Errorf("failed to marshal exercise: %s", err)
		http.Error(w, "failed to marshal exercise", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, exerciseJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.deleteExercise")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.store.DeleteExercise(ctx, id); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete exercise %s: %s", id, err)
		http.Error(w, "exercise not deleted", http.StatusInternalServerError)
		return
	}

	handler.invalidator.Invalidate(id)
	writeDeleteResponse(w, id)
}

func (handler *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.addEntry")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]
	var req AddEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry, err := handler.store.AddEntry(ctx, exerciseID, req.Name, req.Reps, req.Sets, req.Weight)
	if err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add entry to exercise %s: %s", exerciseID, err)
		http.Error(w, "error, failed to add entry", http.StatusInternalServerError)
		return
	}
	handler.instr.CounterEntriesAdded.Inc()
	handler.invalidator.Invalidate(exerciseID)

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal new entry: %s", err)
		http.Error(w, "error, failed to add entry", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (handler *Handler) HandleClearExerciseEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.clearExerciseEntries")
	defer span.End()

	exerciseID := mux.Vars(r)["id"]
	if err := handler.store.ClearExerciseEntries(ctx, exerciseID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to clear entries of exercise %s: %s", exerciseID, err)
		http.Error(w, "entries not cleared", http.StatusInternalServerError)
		return
	}

	handler.invalidator.Invalidate(exerciseID)
	writeClearedResponse(w, exerciseID)
}

func (handler *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.deleteEntry")
	defer span.End()

	vars := mux.Vars(r)
	exerciseID := vars["id"]
	entryID := vars["entryId"]

	if err := handler.store.DeleteEntry(ctx, exerciseID, entryID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) || errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "entry not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete entry %s of exercise %s: %s", entryID, exerciseID, err)
		http.Error(w, "entry not deleted", http.StatusInternalServerError)
		return
	}

	handler.invalidator.Invalidate(exerciseID)
	writeDeleteResponse(w, entryID)
}

func (handler *Handler) HandleAddWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.addWorkout")
	defer span.End()

	var req AddWorkoutRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Name == "" || len(req.ExerciseIDs) == 0 {
		http.Error(w, "error, workout name or exercise selection empty", http.StatusBadRequest)
		return
	}

	workout, err := handler.store.AddWorkout(ctx, req.Name, req.ExerciseIDs)
	if err != nil {
		if errors.Is(err, ErrNothingToAdd) {
			http.Error(w, "error, no known exercises selected", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add new workout [%s]: %s", req.Name, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}
	handler.instr.CounterWorkoutsAdded.Inc()

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %s", workout.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusCreated)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.listWorkouts")
	defer span.End()

	workoutsJson, err := json.Marshal(handler.store.Workouts())
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutsJson, http.StatusOK)
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.getWorkout")
	defer span.End()

	id := mux.Vars(r)["id"]
	workout, err := handler.store.Workout(id)
	if err != nil {
		log.Debugf("workout %s not found", id)
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("failed to marshal workout: %s", err)
		http.Error(w, "failed to marshal workout", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, workoutJson, http.StatusOK)
}

func (handler *Handler) HandleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.deleteWorkout")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := handler.store.DeleteWorkout(ctx, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete workout %s: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}

	writeDeleteResponse(w, id)
}

func (handler *Handler) HandleTrackWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.trackWorkout")
	defer span.End()

	workoutID := mux.Vars(r)["id"]
	var req TrackWorkoutRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := handler.store.TrackWorkout(ctx, workoutID, req.TrackingData); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to track workout %s: %s", workoutID, err)
		http.Error(w, "workout not tracked", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"tracked":true}`)
}

// HandleAddWorkoutEntry records one entry against the workout-embedded
// exercise AND the global exercise, as a single explicit dual write. A
// globally deleted exercise does not fail the workout-side record.
func (handler *Handler) HandleAddWorkoutEntry(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.addWorkoutEntry")
	defer span.End()

	vars := mux.Vars(r)
	workoutID := vars["id"]
	exerciseID := vars["exerciseId"]

	var req AddEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry := model.NewExerciseEntry(req.Name, req.Reps, req.Sets, req.Weight)
	if err := handler.store.AppendEntryToWorkoutExercise(ctx, workoutID, exerciseID, entry); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) || errors.Is(err, ErrExerciseNotFound) {
			http.Error(w, "workout exercise not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to add entry to workout %s exercise %s: %s", workoutID, exerciseID, err)
		http.Error(w, "error, failed to add entry", http.StatusInternalServerError)
		return
	}

	if err := handler.store.AppendEntry(ctx, exerciseID, entry); err != nil {
		// the exercise can be legitimately gone from the global collection
		log.Debugf("entry %s not mirrored to global exercise %s: %s", entry.ID, exerciseID, err)
	}
	handler.instr.CounterEntriesAdded.Inc()
	handler.invalidator.Invalidate(exerciseID)

	entryJson, err := json.Marshal(entry)
	if err != nil {
		log.Errorf("failed to marshal new workout entry: %s", err)
		http.Error(w, "error, failed to add entry", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, entryJson, http.StatusCreated)
}

func (handler *Handler) HandleClearAllEntries(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.clearAllEntries")
	defer span.End()

	workoutID := mux.Vars(r)["id"]
	if err := handler.store.ClearAllEntries(ctx, workoutID); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to clear entries of workout %s: %s", workoutID, err)
		http.Error(w, "entries not cleared", http.StatusInternalServerError)
		return
	}

	writeClearedResponse(w, workoutID)
}

func (handler *Handler) HandleUpdateSidecar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymtrack.updateSidecar")
	defer span.End()

	workoutID := mux.Vars(r)["id"]
	var req UpdateSidecarRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := handler.store.UpdateWorkoutSidecar(ctx, workoutID, req.TrackingData, req.AddedEntries); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update sidecar of workout %s: %s", workoutID, err)
		http.Error(w, "sidecar not updated", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"updated":true}`)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Tracef("unmarshal json params: %s", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeDeleteResponse(w http.ResponseWriter, id string) {
	deleteRespJson, err := json.Marshal(DeleteResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

func writeClearedResponse(w http.ResponseWriter, id string) {
	clearedRespJson, err := json.Marshal(ClearEntriesResponse{ClearedID: id})
	if err != nil {
		log.Errorf("failed to marshal clear entries response: %s", err)
		http.Error(w, "failed to marshal clear entries response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(clearedRespJson))
}
