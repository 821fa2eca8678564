package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.TrainingsTotal.Inc()
	m.TrainingsTotal.Inc()
	m.ClassificationFailures.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TrainingsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ClassificationFailures))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ClassificationsTotal))

	count, err := testutil.GatherAndCount(reg, "kalam_trainings_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewWithRegistry_Isolated(t *testing.T) {
	// Two registries must not collide on collector names.
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}

func TestSetInventory(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.SetInventory(4, 17)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.Letters))
	assert.Equal(t, 17.0, testutil.ToFloat64(m.Examples))
}

func TestPluginResult(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.PluginResult("keyboard", nil)
	m.PluginResult("keyboard", nil)
	m.PluginResult("keyboard", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PluginExecutions.WithLabelValues("keyboard", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PluginExecutions.WithLabelValues("keyboard", "error")))
}
