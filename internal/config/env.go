// Copyright (c) 2025 Accessgate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvLoaded sync.Once

// Env is the environment layer of the configuration.
type Env struct {
	BaseURL    string        `env:"ACCESSGATE_BASE_URL"`
	StorageKey string        `env:"ACCESSGATE_STORAGE_KEY"`
	Timeout    time.Duration `env:"ACCESSGATE_TIMEOUT"`
	Verbose    bool          `env:"ACCESSGATE_VERBOSE"`
	LogFormat  string        `env:"ACCESSGATE_LOG_FORMAT" envDefault:"text"`
}

// LoadEnv parses the environment into Env. A .env file in the working
// directory is read once per process before parsing; its absence is not an error.
func LoadEnv() (Env, error) {
	dotenvLoaded.Do(func() {
		_ = godotenv.Load()
	})
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, err
	}
	return e, nil
}

// Config converts the environment into a configuration layer.
func (e Env) Config() Config {
	return Config{
		BaseURL:    e.BaseURL,
		StorageKey: e.StorageKey,
		Timeout:    e.Timeout,
	}
}
