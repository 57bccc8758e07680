package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env is the process configuration read from environment variables.
type Env struct {
	ConfigPath string `env:"ROOMMAP_CONFIG" envDefault:"configs/map.yaml"`
	Store      string `env:"ROOMMAP_STORE" envDefault:"file"`
	DataDir    string `env:"ROOMMAP_DATA_DIR" envDefault:"data"`
	SQLitePath string `env:"ROOMMAP_SQLITE_PATH" envDefault:"data/roommap.db"`
	APIPort    int    `env:"ROOMMAP_API_PORT" envDefault:"8080"`
	TLSCert    string `env:"ROOMMAP_TLS_CERT"`
	TLSKey     string `env:"ROOMMAP_TLS_KEY"`

	PGHost     string `env:"PGHOST" envDefault:"127.0.0.1"`
	PGPort     string `env:"PGPORT" envDefault:"5432"`
	PGUser     string `env:"PGUSER" envDefault:"roommap"`
	PGDatabase string `env:"PGDATABASE" envDefault:"roommap"`

	MQTTEnabled     bool   `env:"ROOMMAP_MQTT_ENABLED" envDefault:"false"`
	MQTTURL         string `env:"MQTT_URL" envDefault:"tcp://localhost:1883"`
	MQTTTopicPrefix string `env:"ROOMMAP_MQTT_TOPIC_PREFIX" envDefault:"roommap"`
}

// LoadEnv parses Env from the environment.
func LoadEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	switch e.Store {
	case "file", "sqlite", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown ROOMMAP_STORE %q", e.Store)
	}
	return &e, nil
}
