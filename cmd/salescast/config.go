package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/hinwong/salescast/internal/generate"
)

// Config represents the salescast configuration file
// (~/.config/salescast/config.yaml). Sampling fields are pointers so "not
// set" is distinguishable from zero values.
type Config struct {
	// Sampling defaults
	Temperature       *float64 `yaml:"temperature"`
	TopP              *float64 `yaml:"top_p"`
	RepetitionPenalty *float64 `yaml:"repetition_penalty"`
	MaxNewTokens      *int     `yaml:"max_new_tokens"`
	MaxLength         *int     `yaml:"max_length"`
	DoSample          *bool    `yaml:"do_sample"`
	Seed              *int64   `yaml:"seed"`

	// Server
	ServerAddress string `yaml:"server_address"`
	StreamerDB    string `yaml:"streamer_db"`

	// Output
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "salescast", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or doesn't parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// samplingDefaults layers the config file over the built-in chat defaults,
// then applies explicitly set CLI flags on top.
func samplingDefaults(c *cli.Command, cfg Config,
	temp, topP, repPenalty float64, maxNewTokens int64, greedy bool, seed int64,
) generate.Config {
	defaults := generate.DefaultConfig()

	if cfg.Temperature != nil {
		defaults.Temperature = *cfg.Temperature
	}
	if cfg.TopP != nil {
		defaults.TopP = *cfg.TopP
	}
	if cfg.RepetitionPenalty != nil {
		defaults.RepetitionPenalty = *cfg.RepetitionPenalty
	}
	if cfg.MaxLength != nil {
		defaults.MaxLength = *cfg.MaxLength
	}
	if cfg.MaxNewTokens != nil {
		n := *cfg.MaxNewTokens
		defaults.MaxNewTokens = &n
	}
	if cfg.DoSample != nil {
		defaults.DoSample = *cfg.DoSample
	}
	if cfg.Seed != nil {
		defaults.Seed = *cfg.Seed
	}

	if c.IsSet("temperature") {
		defaults.Temperature = temp
	}
	if c.IsSet("top-p") {
		defaults.TopP = topP
	}
	if c.IsSet("repetition-penalty") {
		defaults.RepetitionPenalty = repPenalty
	}
	if c.IsSet("max-new-tokens") {
		n := int(maxNewTokens)
		defaults.MaxNewTokens = &n
	}
	if c.IsSet("greedy") {
		defaults.DoSample = !greedy
	}
	if c.IsSet("seed") {
		defaults.Seed = seed
	}

	return defaults
}

func defaultDBPath(cfg Config) string {
	if cfg.StreamerDB != "" {
		return cfg.StreamerDB
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "salescast.db"
	}
	return filepath.Join(dir, "salescast", "streamers.db")
}
