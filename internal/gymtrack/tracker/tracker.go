package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=tracker_mocks_test.go -package=tracker_test

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrEntryNotFound    = errors.New("entry not found")
	ErrNothingToAdd     = errors.New("nothing to add")
)

// Gateway persists the two collections. Saves replace the whole stored
// collection; loads never fail, they degrade to an empty collection.
type Gateway interface {
	SaveExercises(ctx context.Context, exercises []model.Exercise) error
	LoadExercises(ctx context.Context) []model.Exercise
	SaveWorkouts(ctx context.Context, workouts []model.Workout) error
	LoadWorkouts(ctx context.Context) []model.Workout
}

// Store owns the in-memory exercise and workout collections for the lifetime
// of the process. Every mutation persists the touched collection through the
// gateway before returning; a failed save is logged and otherwise ignored,
// the in-memory state stays authoritative.
type Store struct {
	gateway Gateway

	mutex     sync.RWMutex
	exercises []model.Exercise
	workouts  []model.Workout
}

func NewStore(ctx context.Context, gateway Gateway) *Store {
	return &Store{
		gateway:   gateway,
		exercises: gateway.LoadExercises(ctx),
		workouts:  gateway.LoadWorkouts(ctx),
	}
}

func (s *Store) AddExercise(ctx context.Context, name string, reps, sets int, weight float64) *model.Exercise {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.addExercise")
	defer span.End()
	span.SetAttributes(attribute.String("exercise.name", name))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	exercise := model.NewExercise(name, reps, sets, weight)
	s.exercises = append(s.exercises, exercise)
	s.persistExercises(ctx)

	log.Debugf("tracking store: exercise [%s] added: %s", exercise.Name, exercise.ID)
	return &exercise
}

func (s *Store) DeleteExercise(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.deleteExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", id))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.exercises {
		if s.exercises[i].ID == id {
			s.exercises = append(s.exercises[:i], s.exercises[i+1:]...)
			s.persistExercises(ctx)
			log.Debugf("tracking store: exercise [%s] deleted", id)
			return nil
		}
	}

	return ErrExerciseNotFound
}

// AddWorkout resolves the selected ids against the current exercise
// collection (unknown ids are silently dropped) and embeds deep copies of
// the matches, with cleared entries, into a new workout. No workout is
// created for an empty name or an empty resolved set.
func (s *Store) AddWorkout(ctx context.Context, name string, exerciseIDs []string) (_ *model.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.addWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.name", name))

	if name == "" {
		return nil, ErrNothingToAdd
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	selected := make(map[string]bool, len(exerciseIDs))
	for _, id := range exerciseIDs {
		selected[id] = true
	}

	var matched []model.Exercise
	for _, e := range s.exercises {
		if selected[e.ID] {
			matched = append(matched, e)
			delete(selected, e.ID)
		}
	}
	for id := range selected {
		log.Tracef("tracking store: add workout [%s]: unknown exercise id %s dropped", name, id)
	}

	if len(matched) == 0 {
		return nil, ErrNothingToAdd
	}

	workout := model.NewWorkout(name, matched)
	s.workouts = append(s.workouts, workout)
	s.persistWorkouts(ctx)

	log.Debugf("tracking store: workout [%s] added with %d exercises: %s", name, len(matched), workout.ID)
	return &workout, nil
}

func (s *Store) DeleteWorkout(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.deleteWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.workouts {
		if s.workouts[i].ID == id {
			s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
			s.persistWorkouts(ctx)
			log.Debugf("tracking store: workout [%s] deleted", id)
			return nil
		}
	}

	return ErrWorkoutNotFound
}

// AddEntry appends a new dated entry to the global exercise. Workouts that
// embedded a copy of the exercise are not touched.
func (s *Store) AddEntry(
	ctx context.Context,
	exerciseID, name string,
	reps, sets int,
	weight float64,
) (*model.ExerciseEntry, error) {
	entry := model.NewExerciseEntry(name, reps, sets, weight)
	if err := s.AppendEntry(ctx, exerciseID, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// AppendEntry appends an already constructed entry to the global exercise.
// Used directly when the same entry is recorded against both the global
// exercise and a workout-embedded copy.
func (s *Store) AppendEntry(ctx context.Context, exerciseID string, entry model.ExerciseEntry) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.appendEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.exercises {
		if s.exercises[i].ID == exerciseID {
			s.exercises[i].Entries = append(s.exercises[i].Entries, entry)
			s.persistExercises(ctx)
			return nil
		}
	}

	log.Errorf("tracking store: add entry: exercise %s not found", exerciseID)
	return ErrExerciseNotFound
}

func (s *Store) DeleteEntry(ctx context.Context, exerciseID, entryID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.deleteEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))
	span.SetAttributes(attribute.String("entry.id", entryID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.exercises {
		if s.exercises[i].ID != exerciseID {
			continue
		}
		entries := s.exercises[i].Entries
		for j := range entries {
			if entries[j].ID == entryID {
				s.exercises[i].Entries = append(entries[:j], entries[j+1:]...)
				s.persistExercises(ctx)
				return nil
			}
		}
		return ErrEntryNotFound
	}

	return ErrExerciseNotFound
}

// ClearExerciseEntries empties the entry history of the global exercise.
func (s *Store) ClearExerciseEntries(ctx context.Context, exerciseID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.clearExerciseEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.exercises {
		if s.exercises[i].ID == exerciseID {
			s.exercises[i].Entries = []model.ExerciseEntry{}
			s.persistExercises(ctx)
			return nil
		}
	}

	return ErrExerciseNotFound
}

// TrackWorkout overwrites the last-tracked values of the workout.
func (s *Store) TrackWorkout(
	ctx context.Context,
	workoutID string,
	trackingData map[string]model.ExerciseTracking,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.trackWorkout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.workouts {
		if s.workouts[i].ID == workoutID {
			s.workouts[i].LastTracked = trackingData
			s.persistWorkouts(ctx)
			return nil
		}
	}

	return ErrWorkoutNotFound
}

// AppendEntryToWorkoutExercise appends the entry to the exercise copy
// embedded in the workout. The global exercise collection is not touched;
// callers wanting global visibility record the entry there explicitly.
func (s *Store) AppendEntryToWorkoutExercise(
	ctx context.Context,
	workoutID, exerciseID string,
	entry model.ExerciseEntry,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.appendEntryToWorkoutExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	workout := s.findWorkout(workoutID)
	if workout == nil {
		return ErrWorkoutNotFound
	}

	exercise := workout.Exercise(exerciseID)
	if exercise == nil {
		return ErrExerciseNotFound
	}

	exercise.Entries = append(exercise.Entries, entry)
	s.persistWorkouts(ctx)
	return nil
}

// ClearAllEntries empties the entries of every exercise embedded in the
// workout and wipes its tracking sidecar state.
func (s *Store) ClearAllEntries(ctx context.Context, workoutID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.clearAllEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	workout := s.findWorkout(workoutID)
	if workout == nil {
		return ErrWorkoutNotFound
	}

	workout.ClearAllEntries()
	s.persistWorkouts(ctx)
	return nil
}

// UpdateWorkoutSidecar replaces the draft and committed-snapshot sidecar
// state of the workout in one defined save boundary. Keys not matching an
// embedded exercise are dropped, they must stay a subset of the workout's
// exercise ids.
func (s *Store) UpdateWorkoutSidecar(
	ctx context.Context,
	workoutID string,
	trackingData map[string]model.ExerciseTracking,
	addedEntries map[string][]model.ExerciseTracking,
) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "trackingStore.updateWorkoutSidecar")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	workout := s.findWorkout(workoutID)
	if workout == nil {
		return ErrWorkoutNotFound
	}

	embedded := make(map[string]bool, len(workout.Exercises))
	for _, e := range workout.Exercises {
		embedded[e.ID] = true
	}

	workout.TrackingData = map[string]model.ExerciseTracking{}
	for id, t := range trackingData {
		if !embedded[id] {
			log.Warnf("tracking store: sidecar update for workout %s: dropping unknown exercise id %s", workoutID, id)
			continue
		}
		workout.TrackingData[id] = t
	}

	workout.AddedEntries = map[string][]model.ExerciseTracking{}
	for id, entries := range addedEntries {
		if !embedded[id] {
			log.Warnf("tracking store: sidecar update for workout %s: dropping unknown exercise id %s", workoutID, id)
			continue
		}
		workout.AddedEntries[id] = entries
	}

	s.persistWorkouts(ctx)
	return nil
}

func (s *Store) Exercises() []model.Exercise {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	exercises := make([]model.Exercise, 0, len(s.exercises))
	for _, e := range s.exercises {
		exercises = append(exercises, e.Snapshot())
	}
	return exercises
}

func (s *Store) Workouts() []model.Workout {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	workouts := make([]model.Workout, 0, len(s.workouts))
	for _, w := range s.workouts {
		workouts = append(workouts, w.Snapshot())
	}
	return workouts
}

func (s *Store) Exercise(id string) (*model.Exercise, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for i := range s.exercises {
		if s.exercises[i].ID == id {
			exercise := s.exercises[i].Snapshot()
			return &exercise, nil
		}
	}
	return nil, ErrExerciseNotFound
}

func (s *Store) Workout(id string) (*model.Workout, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if workout := s.findWorkout(id); workout != nil {
		w := workout.Snapshot()
		return &w, nil
	}
	return nil, ErrWorkoutNotFound
}

// findWorkout must be called with the mutex held.
func (s *Store) findWorkout(id string) *model.Workout {
	for i := range s.workouts {
		if s.workouts[i].ID == id {
			return &s.workouts[i]
		}
	}
	return nil
}

// persistExercises must be called with the mutex held. A failed save is a
// diagnostic, not an error for the acting user.
func (s *Store) persistExercises(ctx context.Context) {
	if err := s.gateway.SaveExercises(ctx, s.exercises); err != nil {
		log.Errorf("tracking store: save exercises: %s", err)
	}
}

// persistWorkouts must be called with the mutex held.
func (s *Store) persistWorkouts(ctx context.Context) {
	if err := s.gateway.SaveWorkouts(ctx, s.workouts); err != nil {
		log.Errorf("tracking store: save workouts: %s", err)
	}
}
