package main

import (
	"fmt"
	"strings"
	"time"

	"invite_contest_bot/internal/repository"

	"github.com/spf13/viper"
)

const (
	configPath   = "./"
	configName   = "config"
	configFormat = "yaml"
)

type Config struct {
	Database repository.Config `yaml:"database"`
	Server   ServerConfig      `yaml:"server"`

	Telegram  TelegramConfig  `yaml:"telegram"`
	Broadcast BroadcastConfig `yaml:"broadcast"`

	AdminToken string `yaml:"adminToken"`
	LogLevel   string `yaml:"logLevel"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	// GroupID is the contest group whose join/leave events drive the counters.
	GroupID int64 `yaml:"groupID"`
	Debug   bool  `yaml:"debug"`
}

type BroadcastConfig struct {
	BatchSize  int           `yaml:"batchSize"`
	BatchPause time.Duration `yaml:"batchPause"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(configName)
	viper.AddConfigPath(configPath)
	viper.SetConfigType(configFormat)

	viper.SetDefault("broadcast.batchSize", 20)
	viper.SetDefault("broadcast.batchPause", time.Second)
	viper.SetDefault("logLevel", "info")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Telegram.BotToken == "" {
		return nil, fmt.Errorf("telegram.botToken is required")
	}
	if cfg.Telegram.GroupID == 0 {
		return nil, fmt.Errorf("telegram.groupID is required")
	}
	if cfg.AdminToken == "" {
		return nil, fmt.Errorf("adminToken is required")
	}

	return &cfg, nil
}
