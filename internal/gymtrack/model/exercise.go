package model

import (
	"time"

	"github.com/google/uuid"
)

type Exercise struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Reps    int             `json:"reps"`
	Sets    int             `json:"sets"`
	Weight  float64         `json:"weight"`
	Entries []ExerciseEntry `json:"entries"`
}

func NewExercise(name string, reps, sets int, weight float64) Exercise {
	return Exercise{
		ID:      uuid.NewString(),
		Name:    name,
		Reps:    reps,
		Sets:    sets,
		Weight:  weight,
		Entries: []ExerciseEntry{},
	}
}

// Snapshot returns an independent copy of the exercise. The copy keeps the
// original ID, so lookups by id still correlate between the global collection
// and workout-embedded copies, but the two diverge freely after this point.
func (e Exercise) Snapshot() Exercise {
	snapshot := e
	snapshot.Entries = make([]ExerciseEntry, len(e.Entries))
	copy(snapshot.Entries, e.Entries)
	return snapshot
}

// LatestEntry returns the most recently appended entry, or nil.
func (e Exercise) LatestEntry() *ExerciseEntry {
	if len(e.Entries) == 0 {
		return nil
	}
	entry := e.Entries[len(e.Entries)-1]
	return &entry
}

type ExerciseEntry struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Date   time.Time `json:"date"`
	Reps   int       `json:"reps"`
	Sets   int       `json:"sets"`
	Weight float64   `json:"weight"`
}

func NewExerciseEntry(name string, reps, sets int, weight float64) ExerciseEntry {
	return ExerciseEntry{
		ID:     uuid.NewString(),
		Name:   name,
		Date:   time.Now(),
		Reps:   reps,
		Sets:   sets,
		Weight: weight,
	}
}

// ExerciseTracking is a dateless (reps, sets, weight) value, used both as a
// live draft before commit and as a lightweight per-session snapshot.
type ExerciseTracking struct {
	ID     string  `json:"id"`
	Reps   int     `json:"reps"`
	Sets   int     `json:"sets"`
	Weight float64 `json:"weight"`
}

func NewExerciseTracking() ExerciseTracking {
	return ExerciseTracking{
		ID: uuid.NewString(),
	}
}
