package config

import "time"

const (
	// AppName is the name of the application.
	AppName = "den"

	// EnvConfigPath is the environment variable for the optional YAML config file.
	EnvConfigPath = `CONFIG_PATH`

	// EnvBotToken is the environment variable for the bot token.
	EnvBotToken = `BOT_TOKEN`

	// EnvMongoUri is the environment variable for the MongoDB URI.
	EnvMongoUri = `MONGO_URI`

	// EnvMonitoringPort is the environment variable for the monitoring port.
	EnvMonitoringPort = `MONITORING_PORT`
)

// Config is the configuration of the bot. Environment variables take priority over the YAML file.
type Config struct {
	// BotToken is the token for the bot.
	BotToken string `yaml:"bot_token" env:"BOT_TOKEN" env-required:"true"`

	// Prefix is the prefix of text commands.
	Prefix string `yaml:"prefix" env:"PREFIX" env-default:"."`

	// MonitoringPort is the port for the monitoring server.
	MonitoringPort string `yaml:"monitoring_port" env:"MONITORING_PORT" env-default:"8080"`

	// MongoUri is the URI for the MongoDB audit log. Empty disables the audit log.
	MongoUri string `yaml:"mongo_uri" env:"MONGO_URI"`

	// LogLevel is one of debug, info, warn and error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Provision ProvisionConfig `yaml:"provision"`

	Voice VoiceConfig `yaml:"voice"`
}

// ProvisionConfig paces the platform calls of a setup run.
type ProvisionConfig struct {
	// Interval is the time between two calls once the burst is used up.
	Interval time.Duration `yaml:"interval" env:"PROVISION_INTERVAL" env-default:"50ms"`

	// Burst is the number of calls allowed back to back.
	Burst int `yaml:"burst" env:"PROVISION_BURST" env-default:"5"`
}

// VoiceConfig configures the voice recovery on startup.
type VoiceConfig struct {
	// RecoveryConcurrency is the number of guilds reconnected at the same time.
	RecoveryConcurrency int `yaml:"recovery_concurrency" env:"RECOVERY_CONCURRENCY" env-default:"4"`
}
