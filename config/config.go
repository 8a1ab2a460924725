package config

import (
	"errors"
	"log/slog"
	"net"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/simple-observability/pkg/dashboard"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const DefaultServiceName = "simple-observability"

// Flag names registered by RegisterFlags.
const (
	FlagConfigDir    = "config-dir"
	FlagAddress      = "address"
	FlagLogLevel     = "log-level"
	FlagSettingsFile = "settings-file"
)

type ServerConfig struct {
	Name        string `mapstructure:"name"`
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	AddSource bool   `mapstructure:"add_source"`
}

// DashboardConfig locates the dashboard settings file and the section read from it.
type DashboardConfig struct {
	SettingsFile   string `mapstructure:"settings_file"`
	Optional       bool   `mapstructure:"optional"`
	ReloadOnChange bool   `mapstructure:"reload_on_change"`
	Section        string `mapstructure:"section"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// RegisterFlags adds the command line overrides understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfigDir, "", "additional directory searched for config.yaml")
	fs.String(FlagAddress, ":8080", "listen address of the HTTP server")
	fs.String(FlagLogLevel, LogLevelInfo, "log level (debug, info, warn, error)")
	fs.String(FlagSettingsFile, dashboard.DefaultSettingsFile, "dashboard settings file")
}

// Load reads config.yaml from ./config, the working directory and the
// --config-dir flag, then applies environment variables (server.address is
// SERVER_ADDRESS) and flags set on fs. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.name", DefaultServiceName)
	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", LogLevelInfo)
	v.SetDefault("logging.add_source", false)
	v.SetDefault("dashboard.settings_file", dashboard.DefaultSettingsFile)
	v.SetDefault("dashboard.optional", true)
	v.SetDefault("dashboard.reload_on_change", true)
	v.SetDefault("dashboard.section", dashboard.DefaultSectionName)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if fs != nil {
		if dir, err := fs.GetString(FlagConfigDir); err == nil && dir != "" {
			v.AddConfigPath(dir)
		}
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"server.address":          FlagAddress,
		"logging.level":           FlagLogLevel,
		"dashboard.settings_file": FlagSettingsFile,
	}

	for key, name := range bindings {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.Required,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Name, validation.Required),
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(validateHostPort),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.Required,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
		validation.Field(&c.Dashboard,
			validation.By(func(value interface{}) error {
				dc, ok := value.(DashboardConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a DashboardConfig")
				}
				return validation.ValidateStruct(&dc,
					validation.Field(&dc.SettingsFile, validation.Required),
					validation.Field(&dc.Section,
						validation.Required,
						validation.By(validateSectionPath),
					),
				)
			}),
		),
	)
}

func validateHostPort(value interface{}) error {
	addr, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return validation.NewError("validation_invalid_hostport", "must be in host:port format")
	}

	if port == "" {
		return validation.NewError("validation_invalid_port", "port cannot be empty")
	}

	if host != "" {
		if err := is.Host.Validate(host); err != nil {
			return validation.NewError("validation_invalid_host", "invalid host")
		}
	}

	return nil
}

func validateSectionPath(value interface{}) error {
	section, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	for _, segment := range strings.Split(section, dashboard.KeyDelimiter) {
		if strings.TrimSpace(segment) == "" {
			return validation.NewError("validation_invalid_section", "must not contain empty path segments")
		}
	}

	return nil
}
