package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "mongo"},
	}
	require.Error(t, validate(cfg))
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 0},
		Database: DatabaseConfig{Driver: "sqlite"},
	}
	require.Error(t, validate(cfg))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "sqlite", URL: "rtfstream.db"},
	}
	require.NoError(t, validate(cfg))
}
