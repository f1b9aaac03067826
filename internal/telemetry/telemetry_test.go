package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracing_WritesEndedSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := InitTracing(&buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "catalog.test")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), `"Name":"catalog.test"`)
	assert.Contains(t, buf.String(), ServiceName)

	// After shutdown spans go nowhere.
	buf.Reset()
	_, span = otel.Tracer("test").Start(context.Background(), "after")
	span.End()
	assert.Empty(t, buf.String())
}
