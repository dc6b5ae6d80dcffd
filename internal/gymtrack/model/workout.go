package model

import (
	"time"

	"github.com/google/uuid"
)

// Workout is one occurrence of a named training session. Multiple workouts
// sharing a name form a session sequence, ordered by Date.
type Workout struct {
	ID        string     `json:"id"`
	Date      time.Time  `json:"date"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`

	// per-exercise sidecar state, keyed by exercise id
	TrackingData map[string]ExerciseTracking   `json:"trackingData"`
	AddedEntries map[string][]ExerciseTracking `json:"addedEntries"`
	// LastTracked is nil for a workout that was never tracked.
	LastTracked map[string]ExerciseTracking `json:"lastTracked"`
}

// NewWorkout embeds snapshots of the given exercises. A new workout starts
// with no history, so the entries of every snapshot are cleared even when the
// template exercise already has entries.
func NewWorkout(name string, exercises []Exercise) Workout {
	snapshots := make([]Exercise, 0, len(exercises))
	for _, e := range exercises {
		snapshot := e.Snapshot()
		snapshot.Entries = []ExerciseEntry{}
		snapshots = append(snapshots, snapshot)
	}
	return Workout{
		ID:           uuid.NewString(),
		Date:         time.Now(),
		Name:         name,
		Exercises:    snapshots,
		TrackingData: map[string]ExerciseTracking{},
		AddedEntries: map[string][]ExerciseTracking{},
	}
}

// Snapshot returns an independent copy of the workout. Embedded exercises
// and the sidecar maps are cloned too, so the copy and the original diverge
// freely after this point.
func (w Workout) Snapshot() Workout {
	snapshot := w
	snapshot.Exercises = make([]Exercise, 0, len(w.Exercises))
	for _, e := range w.Exercises {
		snapshot.Exercises = append(snapshot.Exercises, e.Snapshot())
	}
	snapshot.TrackingData = make(map[string]ExerciseTracking, len(w.TrackingData))
	for id, tracking := range w.TrackingData {
		snapshot.TrackingData[id] = tracking
	}
	snapshot.AddedEntries = make(map[string][]ExerciseTracking, len(w.AddedEntries))
	for id, entries := range w.AddedEntries {
		snapshot.AddedEntries[id] = append([]ExerciseTracking{}, entries...)
	}
	if w.LastTracked != nil {
		snapshot.LastTracked = make(map[string]ExerciseTracking, len(w.LastTracked))
		for id, tracking := range w.LastTracked {
			snapshot.LastTracked[id] = tracking
		}
	}
	return snapshot
}

// Exercise returns the embedded exercise with the given id, or nil.
func (w *Workout) Exercise(id string) *Exercise {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i]
		}
	}
	return nil
}

// ClearAllEntries empties the entries of every embedded exercise and wipes
// the tracking sidecar maps. The global exercise collection is not touched.
func (w *Workout) ClearAllEntries() {
	for i := range w.Exercises {
		w.Exercises[i].Entries = []ExerciseEntry{}
	}
	w.TrackingData = map[string]ExerciseTracking{}
	w.AddedEntries = map[string][]ExerciseTracking{}
	w.LastTracked = nil
}
