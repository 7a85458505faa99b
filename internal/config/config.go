package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Auth struct {
		SigningKey   string `yaml:"signing_key"`
		AccessTTLRaw string `yaml:"access_ttl"`

		// Parsed from AccessTTLRaw; yaml.v2 cannot decode "20h" directly.
		AccessTTL time.Duration `yaml:"-"`
	} `yaml:"auth"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}
	if cfg.Auth.AccessTTLRaw != "" {
		ttl, err := time.ParseDuration(cfg.Auth.AccessTTLRaw)
		if err != nil {
			log.Fatalf("Failed to parse auth.access_ttl: %v", err)
		}
		cfg.Auth.AccessTTL = ttl
	}
	if cfg.Auth.AccessTTL == 0 {
		cfg.Auth.AccessTTL = 20 * time.Hour
	}
	return cfg
}
