package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Data   DataConfig   `mapstructure:"data"`
	Slack  SlackConfig  `mapstructure:"slack"`
	Trello TrelloConfig `mapstructure:"trello"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// DataConfig holds the canonical table source configuration
type DataConfig struct {
	Path             string `mapstructure:"path"`
	DefaultWorkspace string `mapstructure:"default_workspace"`
}

// SlackConfig holds the outbound Slack collaborator configuration
type SlackConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

// TrelloConfig holds the outbound Trello collaborator configuration
type TrelloConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Token   string `mapstructure:"token"`
	ListID  string `mapstructure:"list_id"`
	BaseURL string `mapstructure:"base_url"`
}

// Load reads configuration from an optional YAML file plus environment
// variables. The file path may be empty, in which case defaults and the
// environment are the only sources.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8080")
	v.SetDefault("data.path", "merged_data.csv")
	v.SetDefault("data.default_workspace", "slack")
	v.SetDefault("slack.base_url", "https://slack.com/api")
	v.SetDefault("trello.base_url", "https://api.trello.com/1")

	// Enable environment variable support
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment overrides for credentials
	if token := v.GetString("SLACK_BOT_TOKEN"); token != "" {
		config.Slack.Token = token
	}
	if key := v.GetString("TRELLO_API_KEY"); key != "" {
		config.Trello.APIKey = key
	}
	if token := v.GetString("TRELLO_TOKEN"); token != "" {
		config.Trello.Token = token
	}
	if listID := v.GetString("TRELLO_LIST_ID"); listID != "" {
		config.Trello.ListID = listID
	}
	if path := v.GetString("DATA_PATH"); path != "" {
		config.Data.Path = path
	}

	return &config, nil
}
