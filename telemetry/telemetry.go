// Package telemetry adds OpenTelemetry spans around operation execution and
// model calls. Only the API is used; spans become real once the host process
// installs a tracer provider, and remain no-ops otherwise.
package telemetry

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/runtime"
)

const instrumentationName = "github.com/agentry-ai/agentry"

// Span attribute keys used across Agentry instrumentation.
var (
	AttrEntity       = attribute.Key("agentry.entity")
	AttrOperation    = attribute.Key("agentry.operation")
	AttrModel        = attribute.Key("agentry.model")
	AttrProvider     = attribute.Key("agentry.provider")
	AttrInputTokens  = attribute.Key("agentry.usage.input_tokens")
	AttrOutputTokens = attribute.Key("agentry.usage.output_tokens")
)

// Options configure instrumentation.
type Options struct {
	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

func tracerFrom(opts Options) trace.Tracer {
	if opts.TracerProvider != nil {
		return opts.TracerProvider.Tracer(instrumentationName)
	}
	return otel.Tracer(instrumentationName)
}

// Tracing returns middleware that wraps every operation execution in a span
// named after the operation. Failures are recorded on the span and passed
// through unchanged.
func Tracing(entityName string, optFns ...func(o *Options)) runtime.Middleware {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	tracer := tracerFrom(opts)

	return func(op runtime.Operation) runtime.Operation {
		inner := op.Execute
		name := op.Name
		op.Execute = func(ctx context.Context, raw json.RawMessage) (any, error) {
			ctx, span := tracer.Start(ctx, "agentry.operation "+name,
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(
					AttrEntity.String(entityName),
					AttrOperation.String(name),
				),
			)
			defer span.End()

			result, err := inner(ctx, raw)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}

			span.SetStatus(codes.Ok, "")
			return result, nil
		}
		return op
	}
}

// tracedModel wraps a Model with generation spans.
type tracedModel struct {
	inner  model.Model
	tracer trace.Tracer
}

// WrapModel instruments a model so every Generate call produces a span
// carrying provider, model name and token usage.
func WrapModel(m model.Model, optFns ...func(o *Options)) model.Model {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &tracedModel{inner: m, tracer: tracerFrom(opts)}
}

// Generate implements model.Model.
func (t *tracedModel) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	info := t.inner.Info()
	ctx, span := t.tracer.Start(ctx, "agentry.model.generate",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrModel.String(info.Name),
			AttrProvider.String(info.Provider),
		),
	)
	defer span.End()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if resp.Usage != nil {
		span.SetAttributes(
			AttrInputTokens.Int(resp.Usage.InputTokens),
			AttrOutputTokens.Int(resp.Usage.OutputTokens),
		)
	}
	span.SetStatus(codes.Ok, "")

	return resp, nil
}

// Info implements model.Model.
func (t *tracedModel) Info() model.Info { return t.inner.Info() }
