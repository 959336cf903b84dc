package exporters

import (
	"context"
	"testing"
)

func TestNewTraceExporter(t *testing.T) {
	ctx := context.Background()

	t.Run("stdout", func(t *testing.T) {
		exp, err := NewTraceExporter(ctx, "stdout")
		if err != nil {
			t.Fatalf("NewTraceExporter(stdout) = %v", err)
		}
		if exp == nil {
			t.Fatal("exporter is nil")
		}
	})

	t.Run("none", func(t *testing.T) {
		exp, err := NewTraceExporter(ctx, "none")
		if err != nil {
			t.Fatalf("NewTraceExporter(none) = %v", err)
		}
		if exp == nil {
			t.Fatal("exporter is nil")
		}
	})

	t.Run("otlp without endpoint", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
		t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

		if _, err := NewTraceExporter(ctx, "otlp"); err == nil {
			t.Error("NewTraceExporter(otlp) = nil error, want endpoint error")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewTraceExporter(ctx, "bogus"); err == nil {
			t.Error("NewTraceExporter(bogus) = nil error, want unknown exporter error")
		}
	})
}

func TestNewMeterReader(t *testing.T) {
	ctx := context.Background()

	t.Run("prometheus", func(t *testing.T) {
		reader, err := NewMeterReader(ctx, "prometheus")
		if err != nil {
			t.Fatalf("NewMeterReader(prometheus) = %v", err)
		}
		if reader == nil {
			t.Fatal("reader is nil")
		}
	})

	t.Run("none", func(t *testing.T) {
		reader, err := NewMeterReader(ctx, "none")
		if err != nil {
			t.Fatalf("NewMeterReader(none) = %v", err)
		}
		if reader == nil {
			t.Fatal("reader is nil")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewMeterReader(ctx, "bogus"); err == nil {
			t.Error("NewMeterReader(bogus) = nil error, want unknown exporter error")
		}
	})
}
