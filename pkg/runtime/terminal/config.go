package terminal

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/de-tools/foundation-report/pkg/services/opsman"
	"github.com/de-tools/foundation-report/pkg/services/pivnet"
)

// Config holds the settings that may come from flags or the environment
type Config struct {
	PivnetToken string `mapstructure:"pivnet-token"`
	Foundations string `mapstructure:"foundations"`
	LogLevel    string `mapstructure:"log-level"`
	OmBinary    string `mapstructure:"om-binary"`
	CurlBinary  string `mapstructure:"curl-binary"`
	PivnetURL   string `mapstructure:"pivnet-url"`
}

var envBindings = map[string]string{
	"pivnet-token": "PIVNET_TOKEN",
	"foundations":  "FOUNDATIONS",
	"log-level":    "LOG_LEVEL",
	"om-binary":    "OM_BINARY",
	"curl-binary":  "CURL_BINARY",
	"pivnet-url":   "PIVNET_URL",
}

func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("log-level", "warn")
	v.SetDefault("om-binary", opsman.DefaultBinary)
	v.SetDefault("curl-binary", pivnet.DefaultBinary)
	v.SetDefault("pivnet-url", pivnet.DefaultURL)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}
	for _, key := range []string{"pivnet-token", "log-level"} {
		if err := v.BindPFlag(key, flags.Lookup(key)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
		}
	}
	return v, nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return &cfg, nil
}
