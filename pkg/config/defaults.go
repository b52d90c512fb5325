package config

const (
	defaultProvider  = "gemini"
	defaultModel     = "gemini-2.5-flash"
	defaultAPIKeyEnv = "GEMINI_API_KEY"

	defaultServerListen = ":8787"

	defaultClientServerTarget = "http://localhost:8787"

	defaultCourseLanguage = "English"

	defaultStreamMaxRetries = 4

	defaultKafkaTopic = "tutor.progress"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Provider: ProviderConfig{
			Name:      defaultProvider,
			Model:     defaultModel,
			APIKeyEnv: defaultAPIKeyEnv,
		},
		Server: ServerConfig{
			Listen: defaultServerListen,
		},
		Client: ClientConfig{
			ServerTarget: defaultClientServerTarget,
		},
		Course: CourseConfig{
			Language: defaultCourseLanguage,
		},
		Stream: StreamConfig{
			MaxRetries: defaultStreamMaxRetries,
		},
		EventStream: EventStreamConfig{
			KafkaTopic: defaultKafkaTopic,
		},
	}
}
