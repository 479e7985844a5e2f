package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campusiq-api/pkg/config"
)

func TestDSNIncludesStatementTimeout(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:         "localhost",
		Port:         5432,
		User:         "postgres",
		Password:     "pw",
		Name:         "educational_analytics",
		SSLMode:      "disable",
		QueryTimeout: 30 * time.Second,
	})
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=educational_analytics sslmode=disable options='-c statement_timeout=30000'", dsn)
}

func TestDSNEmptyPassword(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Name: "n", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password='' dbname=n sslmode=disable", dsn)
}
