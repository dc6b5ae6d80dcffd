// Package sessions turns the flat workout collection into navigable session
// sequences: all workouts sharing a name, ordered by date ascending, with a
// cursor that saturates at both ends.
package sessions

import (
	"errors"
	"sort"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
)

var ErrIndexOutOfRange = errors.New("session index out of range")

type workoutSource interface {
	Workouts() []model.Workout
}

// Resolver answers session queries against the live workout collection. It
// holds no state of its own, every call sees the collection as it is now.
type Resolver struct {
	source workoutSource
}

func NewResolver(source workoutSource) *Resolver {
	return &Resolver{source: source}
}

// SessionsFor returns the workouts with exactly the given name, oldest
// first. Workouts sharing a date keep their collection order.
func (r *Resolver) SessionsFor(name string) []model.Workout {
	var sessions []model.Workout
	for _, w := range r.source.Workouts() {
		if w.Name == name {
			sessions = append(sessions, w)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})
	return sessions
}

func (r *Resolver) Count(name string) int {
	count := 0
	for _, w := range r.source.Workouts() {
		if w.Name == name {
			count++
		}
	}
	return count
}

// Session returns the index-th workout of the named sequence.
func (r *Resolver) Session(name string, index int) (*model.Workout, error) {
	sessions := r.SessionsFor(name)
	if index < 0 || index >= len(sessions) {
		return nil, ErrIndexOutOfRange
	}
	return &sessions[index], nil
}

// Navigator is a cursor over one named session sequence. Previous and Next
// saturate instead of wrapping or failing, matching how a user pages through
// past sessions.
type Navigator struct {
	resolver *Resolver
	name     string
	index    int
}

// NewNavigator starts positioned on the most recent session, or at zero for
// a name with no sessions yet.
func NewNavigator(resolver *Resolver, name string) *Navigator {
	nav := &Navigator{
		resolver: resolver,
		name:     name,
	}
	if count := resolver.Count(name); count > 0 {
		nav.index = count - 1
	}
	return nav
}

func (n *Navigator) Index() int {
	return n.index
}

func (n *Navigator) Previous() int {
	if n.index > 0 {
		n.index--
	}
	return n.index
}

func (n *Navigator) Next() int {
	if n.index < n.resolver.Count(n.name)-1 {
		n.index++
	}
	return n.index
}

// Select jumps to the given index when it is valid for the current sequence.
func (n *Navigator) Select(index int) error {
	if index < 0 || index >= n.resolver.Count(n.name) {
		return ErrIndexOutOfRange
	}
	n.index = index
	return nil
}

// Clamp pulls the cursor back into range after the underlying collection
// shrank, e.g. a workout of this sequence was deleted.
func (n *Navigator) Clamp() {
	count := n.resolver.Count(n.name)
	if count == 0 {
		n.index = 0
		return
	}
	if n.index >= count {
		n.index = count - 1
	}
}

// Current returns the workout under the cursor.
func (n *Navigator) Current() (*model.Workout, error) {
	return n.resolver.Session(n.name, n.index)
}
