package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "REQSCHED"

// Config holds the runtime configuration for one scheduler run.
type Config struct {
	URL              string
	RequestTimeout   time.Duration
	UserAgent        string
	LogDir           string
	Debug            bool
	HistoryPath      string
	HistoryRetention time.Duration
}

// Load reads configuration from an optional YAML file and REQSCHED_* env
// variables, applying defaults for anything unset. When path is empty the
// loader falls back to ./config/config.yaml and treats its absence as normal.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("url", "http://ifconfig.co/")
	v.SetDefault("request.timeout", 10*time.Second)
	v.SetDefault("request.user_agent", "Mozilla/5.0")
	v.SetDefault("log.dir", ".")
	v.SetDefault("log.debug", false)
	v.SetDefault("history.path", "request_history.db")
	v.SetDefault("history.retention", 30*24*time.Hour)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	return &Config{
		URL:              v.GetString("url"),
		RequestTimeout:   v.GetDuration("request.timeout"),
		UserAgent:        v.GetString("request.user_agent"),
		LogDir:           v.GetString("log.dir"),
		Debug:            v.GetBool("log.debug"),
		HistoryPath:      v.GetString("history.path"),
		HistoryRetention: v.GetDuration("history.retention"),
	}, nil
}
