package metrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationResult(t *testing.T) {
	assert.Equal(t, "ok", MutationResult(nil))
	assert.Equal(t, "not_found", MutationResult(errors.New("item not found: 1")))
}

func TestCollectorsRegistered(t *testing.T) {
	Mutations.WithLabelValues("add", "ok").Inc()
	HistoryDepth.Set(3)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["catalog_mutations_total"])
	assert.True(t, names["catalog_history_depth"])
}

func TestWriteText(t *testing.T) {
	Fetches.WithLabelValues("ok").Inc()

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, prometheus.DefaultGatherer))

	out := buf.String()
	assert.Contains(t, out, "# TYPE catalog_fetch_total counter")
	assert.Contains(t, out, `catalog_fetch_total{result="ok"}`)
}
