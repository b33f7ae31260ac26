package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen/quote-generator/internal/platform/config"
)

func TestConfigFrom(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{Name: "quote-generator", Version: "1.4.0", Environment: "dev"},
		Telemetry: config.TelemetryConfig{Enabled: true, Endpoint: "collector:4317", SamplingRate: 0.5},
	}

	got := ConfigFrom(cfg)

	assert.Equal(t, &Config{
		Enabled:      true,
		Endpoint:     "collector:4317",
		ServiceName:  "quote-generator",
		Version:      "1.4.0",
		Environment:  "dev",
		SamplingRate: 0.5,
	}, got)

	cfg.Telemetry.ServiceName = "quotes-web"
	assert.Equal(t, "quotes-web", ConfigFrom(cfg).ServiceName)
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	require.NoError(t, p.Shutdown(context.Background()))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}
