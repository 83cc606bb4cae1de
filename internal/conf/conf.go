package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the service configuration.
type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Shortener *Shortener `json:"shortener"`
	Clicks    *Clicks    `json:"clicks"`
	Log       *Log       `json:"log"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
	// CorsOrigins lists the browser origins allowed to call the API.
	// "*" allows any origin.
	CorsOrigins []string `json:"cors_origins"`
}

type Server_GRPC struct {
	Network              string   `json:"network"`
	Addr                 string   `json:"addr"`
	Timeout              Duration `json:"timeout"`
	MaxConcurrentStreams uint32   `json:"max_concurrent_streams"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
}

type Data_Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Data_Redis configures the lookup cache. An empty Addr disables it.
type Data_Redis struct {
	Network      string   `json:"network"`
	Addr         string   `json:"addr"`
	Password     string   `json:"password"`
	DB           int      `json:"db"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
	CacheTTL     Duration `json:"cache_ttl"`
}

// Shortener holds the settings of the shortening flow.
type Shortener struct {
	// BaseURL is prefixed to codes to build the public short link.
	BaseURL string `json:"base_url"`
	// MaxAttempts bounds random code generation.
	MaxAttempts int `json:"max_attempts"`
}

// Clicks holds the settings of the detached click recording path.
type Clicks struct {
	BufferSize      int64    `json:"buffer_size"`
	WriteTimeout    Duration `json:"write_timeout"`
	CloseTimeout    Duration `json:"close_timeout"`
	ClassifyDevices bool     `json:"classify_devices"`
}

type Log struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Normalize fills unset sections and values with their defaults.
func (b *Bootstrap) Normalize() {
	if b.Server == nil {
		b.Server = &Server{}
	}
	if b.Server.Http == nil {
		b.Server.Http = &Server_HTTP{}
	}
	if b.Server.Http.Addr == "" {
		b.Server.Http.Addr = "0.0.0.0:8000"
	}
	if b.Server.Http.CorsOrigins == nil {
		b.Server.Http.CorsOrigins = []string{"*"}
	}
	if b.Server.Grpc == nil {
		b.Server.Grpc = &Server_GRPC{}
	}
	if b.Server.Grpc.Addr == "" {
		b.Server.Grpc.Addr = "0.0.0.0:9000"
	}
	if b.Data == nil {
		b.Data = &Data{}
	}
	if b.Data.Database == nil {
		b.Data.Database = &Data_Database{}
	}
	if b.Data.Database.Driver == "" {
		b.Data.Database.Driver = "sqlite3"
		b.Data.Database.Source = "file:linkstats.db?cache=shared&_fk=1"
	}
	if b.Data.Redis == nil {
		b.Data.Redis = &Data_Redis{}
	}
	if b.Data.Redis.CacheTTL == 0 {
		b.Data.Redis.CacheTTL = Duration(10 * time.Minute)
	}
	if b.Shortener == nil {
		b.Shortener = &Shortener{}
	}
	if b.Shortener.BaseURL == "" {
		b.Shortener.BaseURL = "http://localhost:8000"
	}
	if b.Shortener.MaxAttempts <= 0 {
		b.Shortener.MaxAttempts = 10
	}
	if b.Clicks == nil {
		b.Clicks = &Clicks{}
	}
	if b.Clicks.BufferSize <= 0 {
		b.Clicks.BufferSize = 1024
	}
	if b.Clicks.WriteTimeout == 0 {
		b.Clicks.WriteTimeout = Duration(5 * time.Second)
	}
	if b.Clicks.CloseTimeout == 0 {
		b.Clicks.CloseTimeout = Duration(10 * time.Second)
	}
	if b.Log == nil {
		b.Log = &Log{}
	}
	if b.Log.Level == "" {
		b.Log.Level = "info"
	}
	if b.Log.Format == "" {
		b.Log.Format = "json"
	}
}

// Duration is a time.Duration read from a Go duration string ("1.5s")
// or from a number of nanoseconds.
type Duration time.Duration

// AsDuration returns d as a time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case nil:
		*d = 0
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		if value == "" {
			*d = 0
			return nil
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}
