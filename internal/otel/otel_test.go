package otel

import (
	"context"
	"errors"
	"testing"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	reqid "github.com/hanpama/shapegen/internal/reqid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup("", "shapegen")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSubscribeRecordsSpans(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	unsubscribe := Subscribe(tp.Tracer(tracerName))
	t.Cleanup(unsubscribe)

	ctx, _ := reqid.NewContext(context.Background())
	eventbus.Publish(ctx, events.RunStart{Command: "generate"})
	eventbus.Publish(ctx, events.SchemaBuildStart{QueryType: "Query", TypeCount: 3})
	eventbus.Publish(ctx, events.SchemaBuildFinish{EntityCount: 3})
	eventbus.Publish(ctx, events.DocumentsBuildStart{Documents: []string{"feed.graphql"}})
	eventbus.Publish(ctx, events.DocumentsBuildFinish{Documents: []string{"feed.graphql"}, Err: errors.New("violations found")})
	eventbus.Publish(ctx, events.RenderStart{Target: "typescript"})
	eventbus.Publish(ctx, events.RenderFinish{Target: "typescript", Bytes: 42})
	eventbus.Publish(ctx, events.RunFinish{Command: "generate"})

	ended := recorder.Ended()
	require.Len(t, ended, 4)

	byName := make(map[string]sdktrace.ReadOnlySpan)
	for _, span := range ended {
		byName[span.Name()] = span
	}
	run := byName["shapegen.run"]
	require.NotNil(t, run)
	for _, name := range []string{"shapegen.schema", "shapegen.documents", "shapegen.render.typescript"} {
		span := byName[name]
		require.NotNil(t, span, name)
		assert.Equal(t, run.SpanContext().SpanID(), span.Parent().SpanID(), name)
	}
	assert.Equal(t, codes.Error, byName["shapegen.documents"].Status().Code)
	assert.Equal(t, codes.Unset, byName["shapegen.schema"].Status().Code)
}

func TestFinishWithoutStart(t *testing.T) {
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(Subscribe(tp.Tracer(tracerName)))

	eventbus.Publish(context.Background(), events.RenderFinish{Target: "proto"})
	assert.Empty(t, recorder.Ended())
}
