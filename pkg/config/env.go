package config

import "strings"

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

const envPrefix = "TACHO"

// EnvKey returns the environment variable viper reads for a config key,
// e.g. "server.log_level" -> "TACHO_SERVER_LOG_LEVEL".
func EnvKey(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// NormalizeEnvironment lowercases the environment name; empty means development.
func NormalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	if env == "" {
		return EnvDevelopment
	}
	return env
}

// IsProductionLike returns true for staging and production, where local
// defaults must not be accepted.
func IsProductionLike(environment string) bool {
	switch NormalizeEnvironment(environment) {
	case EnvStaging, EnvProduction:
		return true
	}
	return false
}
