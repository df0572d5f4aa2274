package telemetry

import (
	"context"
	"testing"
)

func TestEnabled(t *testing.T) {
	t.Setenv(EndpointEnv, "")
	if Enabled() {
		t.Error("Enabled() should be false without an endpoint")
	}
	t.Setenv(EndpointEnv, "http://localhost:4318")
	if !Enabled() {
		t.Error("Enabled() should be true with an endpoint")
	}
}

func TestTracersStartSpans(t *testing.T) {
	ctx := context.Background()
	_, span := Tracer("test").Start(ctx, "op")
	span.End()

	_, span = NoopTracer().Start(ctx, "op")
	if span.IsRecording() {
		t.Error("noop span should not record")
	}
	span.End()
}
