package metrics_test

import (
	"testing"

	"github.com/dplatten/gymtrack/internal/telemetry/metrics"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Counters(t *testing.T) {
	m, reg := metrics.NewTestManagerAndRegistry()

	m.CounterExercisesAdded.Inc()
	m.CounterExercisesAdded.Inc()
	m.CounterWorkoutsAdded.Inc()
	m.GaugeLifeSignal.Set(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}

	exercisesAdded := byName["gymtrack_test_server_exercises_added"]
	require.NotNil(t, exercisesAdded)
	assert.Equal(t, float64(2), exercisesAdded.GetMetric()[0].GetCounter().GetValue())

	workoutsAdded := byName["gymtrack_test_server_workouts_added"]
	require.NotNil(t, workoutsAdded)
	assert.Equal(t, float64(1), workoutsAdded.GetMetric()[0].GetCounter().GetValue())

	lifeSignal := byName["gymtrack_test_server_life_signal"]
	require.NotNil(t, lifeSignal)
	assert.Equal(t, float64(1), lifeSignal.GetMetric()[0].GetGauge().GetValue())
}
