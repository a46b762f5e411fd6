package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/nstehr/bastion/rules"
)

// JournalSettings controls the per-turn decision journal.
type JournalSettings struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// Settings is everything read from the config file and environment.
type Settings struct {
	LogLevel         string          `json:"logLevel" mapstructure:"logLevel"`
	LogFile          string          `json:"logFile" mapstructure:"logFile"`
	Profile          string          `json:"profile" mapstructure:"profile"`
	Seed             uint64          `json:"seed" mapstructure:"seed"`
	Journal          JournalSettings `json:"journal" mapstructure:"journal"`
	ProfileOverrides map[string]any  `json:"profileOverrides" mapstructure:"profileOverrides"`
}

// Load reads bastion.cfg.{yaml,json} from configDir if present, then applies
// BASTION_* environment overrides. A missing file is not an error.
func Load(configDir string) (Settings, error) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "")
	viper.SetDefault("profile", "hivemind")
	viper.SetDefault("seed", 0)

	viper.SetDefault("journal.enabled", false)
	viper.SetDefault("journal.path", "bastion.db")

	viper.SetConfigName("bastion.cfg")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix("BASTION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("error decoding config: %w", err)
	}
	return s, nil
}

// ResolveProfile looks up the named profile and applies the overrides on top.
// Unknown override keys are rejected so a typo does not silently do nothing.
func (s Settings) ResolveProfile() (*rules.Profile, error) {
	p, err := rules.LookupProfile(s.Profile)
	if err != nil {
		return nil, err
	}
	if len(s.ProfileOverrides) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &p,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, fmt.Errorf("profile override decoder: %w", err)
		}
		if err := dec.Decode(s.ProfileOverrides); err != nil {
			return nil, fmt.Errorf("apply overrides to profile %q: %w", s.Profile, err)
		}
		p.Validate()
	}
	return &p, nil
}
