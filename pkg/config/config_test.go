package config

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name       string
		rows       int
		expiration string
		want       Config
	}{
		{
			name: "defaults on invalid values", rows: 0, expiration: "soon",
			want: Config{MaxTelemetryRows: DefaultMaxTelemetryRows, CatalogExpiration: DefaultCatalogExpiration},
		},
		{
			name: "explicit values", rows: 1000, expiration: "30s",
			want: Config{MaxTelemetryRows: 1000, CatalogExpiration: 30 * time.Second},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			MaxTelemetryRows = tt.rows
			CatalogExpiration = tt.expiration
			WatchDataDir = false
			assert.DeepEqual(t, NewConfig(), tt.want)
		})
	}
}
