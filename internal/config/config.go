package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config defines punchcard configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Idle    IdleConfig    `yaml:"idle"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" or "sqlite"
	Dir     string `yaml:"dir"`
	DBPath  string `yaml:"db_path"`
}

type IdleConfig struct {
	ThresholdMinutes  int `yaml:"threshold_minutes"`
	BusinessStartHour int `yaml:"business_start_hour"`
	BusinessEndHour   int `yaml:"business_end_hour"`
}

type ServerConfig struct {
	Mode string `yaml:"mode"` // "stdio" or "http"
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Storage: StorageConfig{
			Backend: "file",
			Dir:     defaultDataDir(),
		},
		Idle: IdleConfig{
			ThresholdMinutes:  60,
			BusinessStartHour: 9,
			BusinessEndHour:   18,
		},
		Server: ServerConfig{
			Mode: "stdio",
			Host: "127.0.0.1",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("PUNCHCARD_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if backend := os.Getenv("PUNCHCARD_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dir := os.Getenv("PUNCHCARD_DATA_DIR"); dir != "" {
		cfg.Storage.Dir = dir
	}
	if dbPath := os.Getenv("PUNCHCARD_DB_PATH"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if mode := os.Getenv("PUNCHCARD_SERVER_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if host := os.Getenv("PUNCHCARD_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PUNCHCARD_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PUNCHCARD_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if level := os.Getenv("PUNCHCARD_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = filepath.Join(cfg.Storage.Dir, "punchcard.db")
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".punchcard"
	}
	return filepath.Join(home, ".punchcard")
}
