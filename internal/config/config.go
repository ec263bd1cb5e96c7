// Package config содержит логику чтения конфигурации дашборда платежей.
package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrMissingDatabaseURL возвращается, если не задан адрес Realtime Database.
var ErrMissingDatabaseURL = errors.New("firebase database URL is required")

// Config содержит параметры конфигурации дашборда платежей.
// Сертификат сервисного аккаунта задаётся либо путём к файлу,
// либо JSON-строкой; отсутствие обоих — фатальная ошибка старта.
type Config struct {
	RunAddress       string `env:"RUN_ADDRESS"`
	FirebaseDBURL    string `env:"FIREBASE_DB_URL"`
	FirebaseCertPath string `env:"FIREBASE_CERT_PATH"`
	FirebaseCertJSON string `env:"FIREBASE_CERT_JSON"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURL := cfg.FirebaseDBURL
	envCertPath := cfg.FirebaseCertPath

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.FirebaseDBURL, "u", "", "firebase realtime database URL")
	flag.StringVar(&cfg.FirebaseCertPath, "c", "", "path to firebase service account JSON")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURL != "" {
		cfg.FirebaseDBURL = envDatabaseURL
	}
	if envCertPath != "" {
		cfg.FirebaseCertPath = envCertPath
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}

	if cfg.FirebaseDBURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	return cfg, nil
}
