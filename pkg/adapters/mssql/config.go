package mssql

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds SQL Server specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// AppName is reported to the server as the client application name
	AppName string `mapstructure:"app_name"`

	// Encrypt: "disable", "false", "true" or "strict"
	Encrypt string `mapstructure:"encrypt"`

	// TrustServerCertificate skips certificate chain validation
	TrustServerCertificate bool `mapstructure:"trust_server_certificate"`

	// ConnectionTimeout in seconds; 0 leaves the driver default
	ConnectionTimeout int `mapstructure:"connection_timeout"`
}

// ParseParams decodes the adapter params map.
// YAML and env values arrive loosely typed, so strings like "true" and "30" are accepted.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if len(raw) == 0 {
		return p, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid sqlserver params: %w", err)
	}

	switch p.Encrypt {
	case "", "disable", "false", "true", "strict":
	default:
		return nil, fmt.Errorf("invalid sqlserver params: encrypt must be one of disable, false, true, strict (got %q)", p.Encrypt)
	}
	if p.ConnectionTimeout < 0 {
		return nil, fmt.Errorf("invalid sqlserver params: connection_timeout must not be negative")
	}
	return p, nil
}
