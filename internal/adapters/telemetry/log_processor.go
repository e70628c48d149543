package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/apilevel/internal/core/domain"
	"go.trai.ch/apilevel/internal/core/ports"
)

var _ sdktrace.SpanProcessor = (*LogProcessor)(nil)

// LogProcessor reports every finished span through a ports.Logger.
type LogProcessor struct {
	logger ports.Logger
}

// attrLogger is implemented by loggers that render span attributes themselves.
type attrLogger interface {
	LogAttrs(severity domain.Severity, msg string, attrs ...slog.Attr)
}

// NewLogProcessor creates a LogProcessor writing to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// OnStart does nothing; spans are reported when they end.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and attributes.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	severity := domain.SeverityInfo
	if s.Status().Code == codes.Error {
		severity = domain.SeverityWarning
	}

	if al, ok := p.logger.(attrLogger); ok {
		msg := fmt.Sprintf("%s %s", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
		if severity == domain.SeverityWarning {
			msg += " failed: " + s.Status().Description
		}
		attrs := make([]slog.Attr, 0, len(s.Attributes()))
		for _, kv := range s.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		al.LogAttrs(severity, msg, attrs...)
		return
	}

	var b strings.Builder
	b.WriteString(s.Name())
	fmt.Fprintf(&b, " %s", s.EndTime().Sub(s.StartTime()).Round(time.Microsecond))
	for _, kv := range s.Attributes() {
		fmt.Fprintf(&b, " %s=%s", kv.Key, kv.Value.Emit())
	}

	if severity == domain.SeverityWarning {
		b.WriteString(" failed: " + s.Status().Description)
	}
	p.logger.Log(severity, nil, b.String())
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *LogProcessor) ForceFlush(context.Context) error { return nil }

// InstallLogProvider registers a global tracer provider that reports spans
// through logger. The returned function shuts the provider down.
func InstallLogProvider(logger ports.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewLogProcessor(logger)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
