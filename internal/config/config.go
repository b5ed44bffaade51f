package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBUser     string `env:"DB_USER,required"`
	DBPassword string `env:"DB_PASSWORD,required"`
	DBHost     string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName     string `env:"DB_NAME,required"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`

	// InstanceConnectionName switches the DSN to a Cloud SQL unix socket.
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	// LedgerPath is the rewards ledger file. The ledger is deliberately a
	// flat file rather than a database table: multiple processes share it
	// last-writer-wins, and observers watch/poll it for changes.
	LedgerPath string `env:"LEDGER_PATH" envDefault:"data/rewards.json"`

	// StorageBucket enables card photo uploads when set.
	StorageBucket     string `env:"STORAGE_BUCKET"`
	GoogleCredentials string `env:"GOOGLE_CREDENTIALS"`

	// GeminiAPIKey enables the live lookup provider; empty keeps the
	// static mock.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
