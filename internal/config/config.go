package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort  int `yaml:"apiPort"`
	Database struct {
		Type     string `yaml:"type"` // "sqlite" or "postgres"
		Path     string `yaml:"path"` // sqlite only
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`
	Auth struct {
		Secret             string `yaml:"secret"`
		TokenLifetimeHours int    `yaml:"tokenLifetimeHours"`
	} `yaml:"auth"`
	Storage struct {
		Enabled   bool   `yaml:"enabled"`
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"accessKey"`
		SecretKey string `yaml:"secretKey"`
	} `yaml:"storage"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv() // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// If the file is invalid, return an error; a missing file falls
		// back to defaults and environment variables.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8081 // Default port
		log.Println("APIPort not specified, using default 8081")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
		log.Println("Database type not specified, defaulting to sqlite")
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/hydrolog.db"
		log.Println("Database path not specified, using default /data/hydrolog.db")
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}

	if cfg.Auth.Secret == "" {
		return nil, ErrMissingAuthSecret
	}

	if cfg.Auth.TokenLifetimeHours == 0 {
		cfg.Auth.TokenLifetimeHours = 168 // 7 days
		log.Println("Token lifetime not specified, using default 168h")
	}

	return &cfg, nil
}
