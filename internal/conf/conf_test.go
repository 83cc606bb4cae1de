package conf

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", input: `"1.5s"`, want: 1500 * time.Millisecond},
		{name: "minutes", input: `"10m"`, want: 10 * time.Minute},
		{name: "nanoseconds", input: `1000`, want: time.Microsecond},
		{name: "empty string", input: `""`, want: 0},
		{name: "null", input: `null`, want: 0},
		{name: "garbage", input: `"soon"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.AsDuration())
		})
	}
}

func TestBootstrap_ScanAndNormalize(t *testing.T) {
	raw := `{
		"server": {"http": {"addr": "127.0.0.1:8080", "timeout": "2s"}},
		"data": {"redis": {"addr": "localhost:6379", "cache_ttl": "1m"}},
		"shortener": {"base_url": "https://sho.rt"},
		"clicks": {"classify_devices": true}
	}`

	var bc Bootstrap
	require.NoError(t, json.Unmarshal([]byte(raw), &bc))
	bc.Normalize()

	assert.Equal(t, "127.0.0.1:8080", bc.Server.Http.Addr)
	assert.Equal(t, 2*time.Second, bc.Server.Http.Timeout.AsDuration())
	assert.Equal(t, []string{"*"}, bc.Server.Http.CorsOrigins)
	assert.Equal(t, "0.0.0.0:9000", bc.Server.Grpc.Addr)
	assert.Equal(t, "sqlite3", bc.Data.Database.Driver)
	assert.Equal(t, "localhost:6379", bc.Data.Redis.Addr)
	assert.Equal(t, time.Minute, bc.Data.Redis.CacheTTL.AsDuration())
	assert.Equal(t, "https://sho.rt", bc.Shortener.BaseURL)
	assert.Equal(t, 10, bc.Shortener.MaxAttempts)
	assert.True(t, bc.Clicks.ClassifyDevices)
	assert.Equal(t, int64(1024), bc.Clicks.BufferSize)
	assert.Equal(t, "info", bc.Log.Level)
}

func TestBootstrap_NormalizeKeepsCorsOrigins(t *testing.T) {
	raw := `{"server": {"http": {"cors_origins": ["http://localhost:5173"]}}}`

	var bc Bootstrap
	require.NoError(t, json.Unmarshal([]byte(raw), &bc))
	bc.Normalize()

	assert.Equal(t, []string{"http://localhost:5173"}, bc.Server.Http.CorsOrigins)
}
