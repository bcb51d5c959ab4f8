package observability

import (
	"testing"

	"github.com/smallbiznis/gatekeeper/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(config.Config{})

	assert.Equal(t, "gatekeeper", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "debug level", cfg: Config{LogLevel: "DEBUG", Environment: "production"}, want: true},
		{name: "development env", cfg: Config{LogLevel: "info", Environment: "development"}, want: true},
		{name: "production", cfg: Config{LogLevel: "info", Environment: "production"}, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.cfg.Debug())
		})
	}
}
