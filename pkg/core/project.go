package core

// TargetConfig holds database target configuration as written in schemasync.yaml.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlserver

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Database string `koanf:"database"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Additional driver-specific options, appended to the connection string
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration decoded by the adapter itself
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the gateway connection config.
func (t *TargetConfig) AdapterConfig() AdapterConfig {
	return AdapterConfig{
		Type:     t.Type,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}
