// Package config handles loading and parsing application configuration.
// Sources, in priority order:
//  1. A YAML file named by the CONFIG_PATH env var or the --config flag
//  2. Environment variable overrides (env:"..." tags)
//  3. The env-default values below
//
// A config file is optional: with no file the service starts on the
// defaults — memory storage on localhost — which is the zero-config
// development mode.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Storage Storage `yaml:"storage"`

	// HTTPServer is embedded so its fields promote onto Config.
	HTTPServer `yaml:"http_server"`
}

// Storage selects the repository backend and, for the durable
// backends, the file it persists to.
type Storage struct {
	// Driver is one of "memory", "json", "sqlite".
	Driver string `yaml:"driver" env:"STUDENTS_REPO" env-default:"memory"`

	// Path is the snapshot file (json driver) or database file
	// (sqlite driver). Unused by the memory driver.
	Path string `yaml:"path" env:"STUDENTS_PATH" env-default:"data/students.json"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
}

// MustLoad reads, validates, and returns the application config.
// If this returns, the config is valid; any failure is fatal.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	var cfg Config

	// No file named anywhere: environment + defaults only.
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			log.Fatalf("cannot read config from environment: %s", err)
		}
		return &cfg
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
