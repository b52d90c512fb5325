package config

// Config represents the persistent tutor configuration stored as config.toml
// in the .tutor/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version     int               `toml:"version"`
	Storage     StorageConfig     `toml:"storage"`
	Provider    ProviderConfig    `toml:"provider"`
	Server      ServerConfig      `toml:"server"`
	Client      ClientConfig      `toml:"client"`
	Course      CourseConfig      `toml:"course"`
	Stream      StreamConfig      `toml:"stream"`
	EventStream EventStreamConfig `toml:"eventstream"`
}

// StorageConfig selects the progress log driver. PostgresDSN wins over
// SQLitePath; with neither set the log lives in memory.
type StorageConfig struct {
	SQLitePath  string `toml:"sqlite_path,omitempty"`
	PostgresDSN string `toml:"postgres_dsn,omitempty"`
}

// ProviderConfig holds the upstream model settings used by the server.
type ProviderConfig struct {
	Name      string `toml:"name,omitempty"`
	Model     string `toml:"model,omitempty"`
	Upstream  string `toml:"upstream,omitempty"`
	APIKeyEnv string `toml:"api_key_env,omitempty"`
}

// ServerConfig holds the local backend settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// backend (e.g. tutor generate, tutor interview, tutor profile).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	ServerTarget string `toml:"server_target,omitempty"`
}

// CourseConfig holds course generation settings.
type CourseConfig struct {
	Language string `toml:"language,omitempty"`
}

// StreamConfig holds stream assembly settings. MaxRetries of 0 disables the
// malformed-record bound, so it is always written out.
type StreamConfig struct {
	MaxRetries int `toml:"max_retries"`
}

// EventStreamConfig holds the optional Kafka publisher settings.
// KafkaBrokers is a comma separated host:port list.
type EventStreamConfig struct {
	KafkaBrokers string `toml:"kafka_brokers,omitempty"`
	KafkaTopic   string `toml:"kafka_topic,omitempty"`
}
