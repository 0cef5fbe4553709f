package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"github.com/promptlane/promptlane-go/metrics"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.ObserveRequest("GET", "projects", "200", 20*time.Millisecond)
	c.IncRetry("GET", "projects")
	c.IncRetry("GET", "projects")
	c.ObserveQuery("prompts", "list", 2*time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		byName[f.GetName()] = f
	}
	require.Contains(t, byName, "promptlane_api_request_duration_seconds")
	require.Contains(t, byName, "promptlane_db_query_duration_seconds")

	retries := byName["promptlane_api_request_retries_total"]
	require.NotNil(t, retries)
	require.Len(t, retries.GetMetric(), 1)
	require.Equal(t, 2.0, retries.GetMetric()[0].GetCounter().GetValue())
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *metrics.Collector

	require.NotPanics(t, func() {
		c.ObserveRequest("GET", "projects", "200", time.Millisecond)
		c.IncRetry("GET", "projects")
		c.ObserveQuery("prompts", "list", time.Millisecond)
	})
}
