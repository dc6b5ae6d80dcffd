// Package progress is the read side over the entry history of a global
// exercise: chronological history, a chart-ready weight series and per-day
// averages. Reports are cached per exercise and invalidated on entry
// mutations.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dplatten/gymtrack/internal/gymtrack/model"
	"github.com/dplatten/gymtrack/internal/telemetry/tracing"
)

const (
	cacheExpireSeconds = 5 * 60
)

type exerciseSource interface {
	Exercise(id string) (*model.Exercise, error)
}

// ChartPoint is one point of the weight progression diagram. Index is the
// position of the entry in insertion order, not a date.
type ChartPoint struct {
	Index  int     `json:"index"`
	Weight float64 `json:"weight"`
}

// DayStats holds the per-day averages over all entries recorded that day.
type DayStats struct {
	AvgWeight float64 `json:"avgWeight"`
	AvgReps   int     `json:"avgReps"`
	Sets      int     `json:"sets"`
}

// ExerciseProgress is the full progress report of one exercise.
type ExerciseProgress struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`

	// History holds the entries newest first, the display order.
	History []model.ExerciseEntry `json:"history"`
	// ChartSeries holds the weight progression oldest first.
	ChartSeries []ChartPoint           `json:"chartSeries"`
	Stats       map[time.Time]DayStats `json:"stats"`
}

type Analyzer struct {
	source exerciseSource
	cache  *freecache.Cache
}

func NewAnalyzer(source exerciseSource) *Analyzer {
	megabyte := 1024 * 1024
	return &Analyzer{
		source: source,
		cache:  freecache.NewCache(10 * megabyte),
	}
}

// Progress builds the full report for the exercise, from cache when fresh.
func (a *Analyzer) Progress(ctx context.Context, exerciseID string) (_ *ExerciseProgress, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.exerciseProgress")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	cacheKey := progressCacheKey(exerciseID)
	if cachedBytes, cacheErr := a.cache.Get(cacheKey); cacheErr == nil {
		log.Tracef("found progress for exercise %s in cache", exerciseID)
		progress := &ExerciseProgress{}
		if err := json.Unmarshal(cachedBytes, progress); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return progress, nil
		} else {
			log.Errorf("failed to unmarshal progress from cache for exercise %s: %s", exerciseID, err)
		}
	}

	exercise, err := a.source.Exercise(exerciseID)
	if err != nil {
		return nil, err
	}

	progress := &ExerciseProgress{
		ExerciseID:  exercise.ID,
		Name:        exercise.Name,
		History:     historyOf(exercise),
		ChartSeries: chartSeriesOf(exercise),
		Stats:       dayStatsOf(exercise),
	}

	progressBytes, err := json.Marshal(progress)
	if err != nil {
		// still a usable report, only not cacheable
		log.Errorf("failed to marshal progress of exercise %s for cache: %s", exerciseID, err)
		return progress, nil
	}
	if err := a.cache.Set(cacheKey, progressBytes, cacheExpireSeconds); err != nil {
		log.Errorf("failed to cache progress of exercise %s: %s", exerciseID, err)
	}

	return progress, nil
}

// Latest returns the most recently appended entry of the exercise, nil for
// an exercise without history.
func (a *Analyzer) Latest(ctx context.Context, exerciseID string) (_ *model.ExerciseEntry, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "analyzer.progress.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	exercise, err := a.source.Exercise(exerciseID)
	if err != nil {
		return nil, err
	}
	return exercise.LatestEntry(), nil
}

// Invalidate drops the cached report after an entry mutation.
func (a *Analyzer) Invalidate(exerciseID string) {
	a.cache.Del(progressCacheKey(exerciseID))
}

func progressCacheKey(exerciseID string) []byte {
	return []byte(fmt.Sprintf("progress::%s", exerciseID))
}

func historyOf(exercise *model.Exercise) []model.ExerciseEntry {
	history := make([]model.ExerciseEntry, len(exercise.Entries))
	copy(history, exercise.Entries)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

func chartSeriesOf(exercise *model.Exercise) []ChartPoint {
	series := make([]ChartPoint, 0, len(exercise.Entries))
	for i, entry := range exercise.Entries {
		series = append(series, ChartPoint{Index: i, Weight: entry.Weight})
	}
	return series
}

func dayStatsOf(exercise *model.Exercise) map[time.Time]DayStats {
	day2entries := make(map[time.Time][]model.ExerciseEntry)
	for _, entry := range exercise.Entries {
		day := entry.Date.Truncate(24 * time.Hour)
		day2entries[day] = append(day2entries[day], entry)
	}

	stats := make(map[time.Time]DayStats, len(day2entries))
	for day, entries := range day2entries {
		var totalWeight float64
		var totalReps int
		for _, entry := range entries {
			totalWeight += entry.Weight
			totalReps += entry.Reps
		}
		stats[day] = DayStats{
			AvgWeight: totalWeight / float64(len(entries)),
			AvgReps:   totalReps / len(entries),
			Sets:      len(entries),
		}
	}
	return stats
}
