// path: internal/telemetry/provider_test.go
package telemetry_test

import (
	"context"
	"testing"

	"github.com/jcraver1021/flex-chess/internal/telemetry"
)

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("FLEXCHESS_OTEL_ENDPOINT", "")
	t.Setenv("FLEXCHESS_OTEL_ENABLED", "")

	shutdown, err := telemetry.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("FLEXCHESS_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("FLEXCHESS_OTEL_ENABLED", "false")

	shutdown, err := telemetry.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetupCreatesProviderWhenEndpointSet(t *testing.T) {
	// A non-routable address; no export happens before shutdown.
	t.Setenv("FLEXCHESS_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("FLEXCHESS_OTEL_ENABLED", "")

	shutdown, err := telemetry.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}
