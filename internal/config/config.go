// Package config loads bot configuration from config.json with environment
// fallbacks. Environment names match the .env keys the bot has always used.
package config

import (
	"errors"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Bot      BotConfig     `json:"bot"`
	Channels ChannelConfig `json:"channels"`
	Storage  StorageConfig `json:"storage"`
	Log      LogConfig     `json:"log"`
}

type BotConfig struct {
	Token string `json:"token" env:"DISCORD_TOKEN"`
}

type ChannelConfig struct {
	ModLogID  string   `json:"mod_log_id" env:"MOD_LOG_CHANNEL_ID"`
	GeneralID string   `json:"general_id" env:"GENERAL_CHANNEL_ID"`
	StaffIDs  []string `json:"staff_ids" env:"STAFF_CHANNEL_IDS" env-separator:","`
}

type StorageConfig struct {
	DataDir     string `json:"data_dir" env:"DATA_DIR" env-default:"data"`
	AuditDBPath string `json:"audit_db_path" env:"AUDIT_DB_PATH" env-default:"data/audit.db"`
}

type LogConfig struct {
	Dev bool `json:"dev" env:"LOG_DEV"`
}

// Load reads path (when present) and applies environment overrides, then
// validates the required fields.
func Load(path string) (*Config, error) {
	var cfg Config

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Bot.Token == "" {
		return errors.New("DISCORD_TOKEN is required")
	}
	if c.Channels.ModLogID == "" {
		return errors.New("MOD_LOG_CHANNEL_ID is required")
	}
	if c.Channels.GeneralID == "" {
		return errors.New("GENERAL_CHANNEL_ID is required")
	}
	return nil
}
