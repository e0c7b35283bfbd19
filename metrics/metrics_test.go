package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCommandIncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.ObserveCommand("get", "hit")
	s.ObserveCommand("get", "hit")

	metric := &dto.Metric{}
	require.NoError(t, s.CommandsTotal.WithLabelValues("get", "hit").Write(metric))
	assert.Equal(t, float64(2), metric.GetCounter().GetValue())
}

func TestObserveRefreshRecordsErrorOnMiss(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := New(reg)

	s.ObserveRefresh("echo1", "miss", time.Now().Add(-5*time.Millisecond))

	metric := &dto.Metric{}
	require.NoError(t, s.SourceErrors.WithLabelValues("echo1").Write(metric))
	assert.Equal(t, float64(1), metric.GetCounter().GetValue())
}
