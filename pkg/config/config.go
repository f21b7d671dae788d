package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const EnvPrefix = "RF2DASH"

// Config holds the configuration of every rf2dash process.
type Config struct {
	TelemetryURL   string        `mapstructure:"telemetry_url"`
	ExportURL      string        `mapstructure:"export_url"`
	ListenAddr     string        `mapstructure:"listen_addr"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	ChartWindow    time.Duration `mapstructure:"chart_window"`
	ExportTimeout  time.Duration `mapstructure:"export_timeout"`

	ExportListen string `mapstructure:"export_listen"`
	ExportDir    string `mapstructure:"export_dir"`
	DBPath       string `mapstructure:"db_path"`

	MockListen   string        `mapstructure:"mock_listen"`
	MockInterval time.Duration `mapstructure:"mock_interval"`
	MockPhase    time.Duration `mapstructure:"mock_phase"`
	MockDriver   string        `mapstructure:"mock_driver"`
	MockVehicle  string        `mapstructure:"mock_vehicle"`
	MockTrack    string        `mapstructure:"mock_track"`

	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`

	LogLevel string `mapstructure:"log_level"`
}

// New returns a viper instance with defaults and environment lookup set.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("telemetry_url", "ws://localhost:8080/ws")
	v.SetDefault("export_url", "http://localhost:8000/export-csv")
	v.SetDefault("listen_addr", ":8090")
	v.SetDefault("reconnect_delay", "1s")
	v.SetDefault("chart_window", "20s")
	v.SetDefault("export_timeout", "10s")
	v.SetDefault("export_listen", ":8000")
	v.SetDefault("export_dir", "export")
	v.SetDefault("db_path", "./rf2dash.db")
	v.SetDefault("mock_listen", ":8080")
	v.SetDefault("mock_interval", "100ms")
	v.SetDefault("mock_phase", "30s")
	v.SetDefault("mock_driver", "Player")
	v.SetDefault("mock_vehicle", "Oreca 07")
	v.SetDefault("mock_track", "Spa-Francorchamps")
	v.SetDefault("telegram_token", "")
	v.SetDefault("telegram_chat_id", 0)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes the result.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "error reading config file")
		}
		log.Debug("no config file found, using defaults, environment and flags")
	} else {
		log.Infof("using config file: %s", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	if cfg.ReconnectDelay <= 0 {
		return nil, errors.Errorf("reconnect_delay must be positive, got %s", cfg.ReconnectDelay)
	}
	return &cfg, nil
}

// ApplyLogLevel sets the logrus level from the config.
func (c *Config) ApplyLogLevel() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "log_level %q", c.LogLevel)
	}
	log.SetLevel(level)
	return nil
}
