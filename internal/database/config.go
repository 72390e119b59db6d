package database

import (
	"fmt"

	"invtracker/internal/config"
)

// Config holds database configuration
type Config struct {
	Backend    string
	SQLitePath string

	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(cfg *config.Config) *Config {
	return &Config{
		Backend:    cfg.StoreBackend,
		SQLitePath: cfg.SQLitePath,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPassword,
		DBName:     cfg.DBName,
		SSLMode:    cfg.DBSSLMode,
	}
}

// UsesPostgres reports whether the relational data lives in PostgreSQL.
// The sqlite and file backends both keep users and audit logs in sqlite.
func (c *Config) UsesPostgres() bool {
	return c.Backend == config.BackendPostgres
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the PostgreSQL URL understood by golang-migrate.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}
