package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenTTL)
	assert.Equal(t, "auction-backoffice", cfg.Auth.Issuer)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.SweepInterval)
	// The two token families must never share a secret.
	assert.NotEqual(t, cfg.Auth.AccessTokenSecret, cfg.Auth.RefreshTokenSecret)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("TOKEN_SWEEP_INTERVAL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SweepInterval)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	t.Setenv("BCRYPT_COST", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "postgres",
		DBName:   "backoffice",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=backoffice sslmode=disable",
		db.GetDSN())
}
