package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml (or the file at path when non-empty), merges
// config.<APP_ENVIRONMENT>.yaml over it, then applies environment overrides
// such as SERVER_ADDR or STORAGE_DRIVER.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	bindKeys(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	if path == "" {
		v.SetConfigName("config." + env)
		_ = v.MergeInConfig()
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}

	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// bindKeys registers every key so AutomaticEnv sees variables for keys the
// config file leaves out.
func bindKeys(v *viper.Viper) {
	for _, k := range []string{
		"app.name", "app.version", "app.environment",
		"server.addr", "server.read_timeout", "server.write_timeout", "server.shutdown_timeout",
		"session.secret", "session.lifetime", "session.secure",
		"storage.driver", "storage.sqlite.path",
		"storage.redis.address", "storage.redis.password", "storage.redis.db", "storage.redis.ttl",
		"services.pincode_url", "services.verify_url", "services.consent_url", "services.timeout",
		"form.fields_path",
		"logging.level", "logging.format",
	} {
		_ = v.BindEnv(k)
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		str, ok := v.Get(key).(string)
		if !ok || !strings.Contains(str, "$") {
			continue
		}
		v.Set(key, os.ExpandEnv(str))
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fpr-form"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Session.Lifetime == 0 {
		cfg.Session.Lifetime = 12 * time.Hour
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "fprform.db"
	}
	if cfg.Storage.Redis.Address == "" {
		cfg.Storage.Redis.Address = "localhost:6379"
	}
	if cfg.Storage.Redis.TTL == 0 {
		cfg.Storage.Redis.TTL = 30 * 24 * time.Hour
	}
	if cfg.Services.Timeout == 0 {
		cfg.Services.Timeout = 10 * time.Second
	}
	if cfg.Form.FieldsPath == "" {
		cfg.Form.FieldsPath = "configs/fields.json"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if len(cfg.Session.Secret) != 32 {
		return fmt.Errorf("session.secret must be 32 bytes, got %d", len(cfg.Session.Secret))
	}
	switch cfg.Storage.Driver {
	case DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverRedis, cfg.Storage.Driver)
	}
	if cfg.Services.PincodeURL == "" || cfg.Services.VerifyURL == "" || cfg.Services.ConsentURL == "" {
		return fmt.Errorf("services.pincode_url, services.verify_url and services.consent_url are required")
	}
	return nil
}
