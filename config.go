package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int
	Env      string
	Pepper   string
	JWT      JWTConfig
	Database PostgresConfig
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:   3000,
		Env:    "dev",
		Pepper: "secret-random-string",
		JWT: JWTConfig{
			Secret:    "secret-jwt-key",
			ExpiresIn: 24 * time.Hour,
		},
		Database: DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "wtf_catalog",
	}
}

// LoadConfig reads configuration from the environment, with a .env file as
// an optional source, on top of the default dev setup.
func LoadConfig() Config {
	if err := godotenv.Load(); err == nil {
		fmt.Println("Successfully loaded .env")
	}

	c := DefaultConfig()
	c.Port = envInt("PORT", c.Port)
	c.Env = envString("ENV", c.Env)
	c.Pepper = envString("PEPPER", c.Pepper)
	c.JWT.Secret = envString("JWT_SECRET", c.JWT.Secret)
	c.JWT.ExpiresIn = envDuration("JWT_EXPIRES_IN", c.JWT.ExpiresIn)
	c.Database.Host = envString("DB_HOST", c.Database.Host)
	c.Database.Port = envInt("DB_PORT", c.Database.Port)
	c.Database.User = envString("DB_USERNAME", c.Database.User)
	c.Database.Password = envString("DB_PASSWORD", c.Database.Password)
	c.Database.Name = envString("DB_DATABASE", c.Database.Name)
	return c
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
