// Package otel turns codegen events into OpenTelemetry spans.
package otel

import (
	"context"
	"sync"

	eventbus "github.com/hanpama/shapegen/internal/eventbus"
	events "github.com/hanpama/shapegen/internal/events"
	reqid "github.com/hanpama/shapegen/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const tracerName = "shapegen"

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Subscribe(otel.Tracer(tracerName))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Subscribe records spans on tracer for the events published under a run
// ID. Schema, document and render spans are children of the run span when
// one is open.
func Subscribe(tracer trace.Tracer) (unsubscribe func()) {
	s := &subscriber{tracer: tracer}
	return s.register()
}

type spanKey struct {
	rid  int64
	name string
}

type subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // spanKey -> trace.Span
}

func (s *subscriber) start(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	rid, _ := reqid.FromContext(ctx)
	parent := ctx
	if name != "run" {
		if v, ok := s.spans.Load(spanKey{rid, "run"}); ok {
			parent = trace.ContextWithSpan(ctx, v.(trace.Span))
		}
	}
	_, span := s.tracer.Start(parent, "shapegen."+name, trace.WithAttributes(attrs...))
	s.spans.Store(spanKey{rid, name}, span)
}

func (s *subscriber) finish(ctx context.Context, name string, err error, attrs ...attribute.KeyValue) {
	rid, _ := reqid.FromContext(ctx)
	v, ok := s.spans.LoadAndDelete(spanKey{rid, name})
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *subscriber) register() func() {
	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.RunStart) {
			s.start(ctx, "run", attribute.String("shapegen.command", e.Command))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.RunFinish) {
			s.finish(ctx, "run", e.Err)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.SchemaBuildStart) {
			s.start(ctx, "schema",
				attribute.String("graphql.schema.query_type", e.QueryType),
				attribute.Int("graphql.schema.type_count", e.TypeCount),
			)
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.SchemaBuildFinish) {
			s.finish(ctx, "schema", e.Err, attribute.Int("shapegen.entity_count", e.EntityCount))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.DocumentsBuildStart) {
			s.start(ctx, "documents", attribute.StringSlice("graphql.documents", e.Documents))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.DocumentsBuildFinish) {
			s.finish(ctx, "documents", e.Err, attribute.Int("shapegen.namespace_count", e.NamespaceCount))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.RenderStart) {
			s.start(ctx, "render."+e.Target, attribute.String("shapegen.target", e.Target))
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.RenderFinish) {
			s.finish(ctx, "render."+e.Target, e.Err, attribute.Int("shapegen.bytes", e.Bytes))
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
