package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "TACHO_SERVER_LOG_LEVEL", EnvKey("server.log_level"))
	assert.Equal(t, "TACHO_RABBITMQ_URL", EnvKey("rabbitmq.url"))
}

func TestNormalizeEnvironment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"development", EnvDevelopment},
		{"STAGING", EnvStaging},
		{" Production ", EnvProduction},
		{"", EnvDevelopment},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEnvironment(tt.in))
		})
	}
}

func TestIsProductionLike(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{EnvDevelopment, false},
		{"", false},
		{"test", false},
		{EnvStaging, true},
		{"PRODUCTION", true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, IsProductionLike(tt.env))
		})
	}
}
