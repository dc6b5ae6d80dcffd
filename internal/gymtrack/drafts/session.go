// Package drafts holds the provisional per-exercise tracking values a user
// edits during one workout session. Drafts live in memory until a commit
// moves them into the workout's added-entries sidecar, and nothing is
// persisted before an explicit Flush.
package drafts

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/gymtrack/tracker"
	"github.com/dplatten/gymtrack/internal/telemetry/tracing"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=session_mocks_test.go -package=drafts_test

type workoutLoader interface {
	LoadWorkouts(ctx context.Context) []model.Workout
}

type sidecarUpdater interface {
	UpdateWorkoutSidecar(
		ctx context.Context,
		workoutID string,
		trackingData map[string]model.ExerciseTracking,
		addedEntries map[string][]model.ExerciseTracking,
	) error
}

// Manager opens draft sessions against the persisted workout state.
type Manager struct {
	loader  workoutLoader
	updater sidecarUpdater
}

func NewManager(loader workoutLoader, updater sidecarUpdater) *Manager {
	return &Manager{
		loader:  loader,
		updater: updater,
	}
}

// Begin opens a draft session for the workout. The workout collection is
// re-read from the gateway so the session always starts from persisted
// state, not from whatever copy a caller may hold.
func (m *Manager) Begin(ctx context.Context, workoutID string) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "drafts.begin")
	defer span.End()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	var workout *model.Workout
	for _, w := range m.loader.LoadWorkouts(ctx) {
		if w.ID == workoutID {
			workout = &w
			break
		}
	}
	if workout == nil {
		return nil, tracker.ErrWorkoutNotFound
	}

	session := &Session{
		updater:   m.updater,
		workoutID: workout.ID,
		embedded:  make(map[string]bool, len(workout.Exercises)),
		drafts:    make(map[string]model.ExerciseTracking, len(workout.Exercises)),
		committed: make(map[string][]model.ExerciseTracking, len(workout.AddedEntries)),
	}

	for _, e := range workout.Exercises {
		session.embedded[e.ID] = true
		if draft, ok := workout.TrackingData[e.ID]; ok {
			session.drafts[e.ID] = draft
		} else {
			session.drafts[e.ID] = model.NewExerciseTracking()
		}
		if entries, ok := workout.AddedEntries[e.ID]; ok {
			session.committed[e.ID] = append([]model.ExerciseTracking{}, entries...)
		}
	}

	log.Debugf("drafts: session opened for workout %s with %d exercises", workoutID, len(session.embedded))
	return session, nil
}

// Session is the draft state of one workout. All edits stay in memory; the
// sidecar on disk does not change until Flush.
type Session struct {
	updater   sidecarUpdater
	workoutID string

	mutex     sync.Mutex
	embedded  map[string]bool
	drafts    map[string]model.ExerciseTracking
	committed map[string][]model.ExerciseTracking
}

func (s *Session) WorkoutID() string {
	return s.workoutID
}

// UpdateDraft applies the mutator to the current draft of the exercise.
// Ids not embedded in the workout are ignored.
func (s *Session) UpdateDraft(exerciseID string, mutate func(*model.ExerciseTracking)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.embedded[exerciseID] {
		log.Tracef("drafts: update for unknown exercise %s ignored", exerciseID)
		return
	}

	draft := s.drafts[exerciseID]
	mutate(&draft)
	s.drafts[exerciseID] = draft
}

// CommitDraft appends the current draft to the committed entries of the
// exercise and resets the draft to a fresh zero-valued one. Commits are
// append-only, the same values committed twice appear twice.
func (s *Session) CommitDraft(exerciseID string) (model.ExerciseTracking, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.embedded[exerciseID] {
		return model.ExerciseTracking{}, tracker.ErrExerciseNotFound
	}

	committed := s.drafts[exerciseID]
	s.committed[exerciseID] = append(s.committed[exerciseID], committed)
	s.drafts[exerciseID] = model.NewExerciseTracking()

	log.Debugf("drafts: committed draft for exercise %s in workout %s", exerciseID, s.workoutID)
	return committed, nil
}

// Draft returns the current provisional values of the exercise.
func (s *Session) Draft(exerciseID string) (model.ExerciseTracking, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	draft, ok := s.drafts[exerciseID]
	return draft, ok
}

// Committed returns the entries committed so far for the exercise, in
// commit order.
func (s *Session) Committed(exerciseID string) []model.ExerciseTracking {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return append([]model.ExerciseTracking{}, s.committed[exerciseID]...)
}

// Flush writes the session's draft and committed state back to the workout
// sidecar in one save. A session never flushed simply loses its drafts,
// they are provisional by nature.
func (s *Session) Flush(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "drafts.flush")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", s.workoutID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	trackingData := make(map[string]model.ExerciseTracking, len(s.drafts))
	for id, draft := range s.drafts {
		trackingData[id] = draft
	}
	addedEntries := make(map[string][]model.ExerciseTracking, len(s.committed))
	for id, entries := range s.committed {
		addedEntries[id] = append([]model.ExerciseTracking{}, entries...)
	}

	return s.updater.UpdateWorkoutSidecar(ctx, s.workoutID, trackingData, addedEntries)
}
