package config

import (
	"os"
)

type Config struct {
	Server   ServerConfig
	Intake   IntakeConfig
	Database DatabaseConfig
	JWT      JWTConfig
}

type ServerConfig struct {
	Port string
}

type IntakeConfig struct {
	TCPAddr string
	UDPAddr string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Database string
	Username string
	Password string
}

type JWTConfig struct {
	Secret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "20002"),
		},
		Intake: IntakeConfig{
			TCPAddr: getEnv("INTAKE_TCP_ADDR", ":20003"),
			UDPAddr: getEnv("INTAKE_UDP_ADDR", ":20004"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnv("CLICKHOUSE_ENABLED", "false") == "true",
			Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
			Port:     getEnv("CLICKHOUSE_PORT", "9000"),
			Database: getEnv("CLICKHOUSE_DATABASE", "rfc5424_conformance"),
			Username: getEnv("CLICKHOUSE_USER", "default"),
			Password: getEnv("CLICKHOUSE_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
