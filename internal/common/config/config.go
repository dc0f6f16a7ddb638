package config

import "time"

// Config is the complete service configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Session  SessionConfig  `mapstructure:"session"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Services ServicesConfig `mapstructure:"services"`
	Form     FormConfig     `mapstructure:"form"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type SessionConfig struct {
	// Secret must be 32 bytes.
	Secret   string        `mapstructure:"secret"`
	Lifetime time.Duration `mapstructure:"lifetime"`
	Secure   bool          `mapstructure:"secure"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type StorageConfig struct {
	// Driver selects where form snapshots live. Outcomes always use SQLite.
	Driver string       `mapstructure:"driver"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type ServicesConfig struct {
	PincodeURL string        `mapstructure:"pincode_url"`
	VerifyURL  string        `mapstructure:"verify_url"`
	ConsentURL string        `mapstructure:"consent_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type FormConfig struct {
	// FieldsPath points at the JSON or YAML field configuration.
	FieldsPath string `mapstructure:"fields_path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
