package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env ... Represents the runtime environment
type Env string

const (
	Development Env = "development"
	Production  Env = "production"
	Local       Env = "local"
)

// FilePath ... Env file path
type FilePath string

// TrueEnvVal ... Represents the encoded string value for true (ie. 1)
const trueEnvVal = "1"

// Config ... Application level configuration defined by `FilePath` value
type Config struct {
	Environment Env
	RPCEndpoint string

	// Seconds to wait on a single receipt or transaction lookup
	RequestTimeout int
}

// NewConfig ... Initializer
func NewConfig(fileName FilePath) *Config {
	if err := godotenv.Load(string(fileName)); err != nil {
		log.Fatalf("config file not found for file: %s", fileName)
	}

	config := &Config{
		Environment: Env(getEnvStr("ENV")),
		RPCEndpoint: getEnvStr("RPC_ENDPOINT"),

		RequestTimeout: getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
	}

	return config
}

// IsProduction ... Returns true if the env is production
func (cfg *Config) IsProduction() bool {
	return cfg.Environment == Production
}

// IsDevelopment ... Returns true if the env is development
func (cfg *Config) IsDevelopment() bool {
	return cfg.Environment == Development
}

// IsLocal ... Returns true if the env is local
func (cfg *Config) IsLocal() bool {
	return cfg.Environment == Local
}

// getEnvStr ... Reads env var from process environment, panics if not found
func getEnvStr(key string) string {
	envVar, ok := os.LookupEnv(key)

	// Not found
	if !ok {
		log.Fatalf("could not find env var given key: %s", key)
	}

	return envVar
}

// getEnvStrWithDefault ... Reads env var from process environment, returns default if not found
func getEnvStrWithDefault(key string, defaultValue string) string {
	envVar, ok := os.LookupEnv(key)

	// Not found
	if !ok {
		return defaultValue
	}

	return envVar
}

// getEnvBool ... Reads env vars and converts to booleans
func getEnvBool(key string) bool {
	return getEnvStrWithDefault(key, "0") == trueEnvVal
}

// getEnvIntWithDefault ... Reads env vars and converts to int, returns default if not found
func getEnvIntWithDefault(key string, defaultValue int) int {
	val, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}

	intRep, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("env val is not int; got: %s=%s; err: %s", key, val, err.Error())
	}

	return intRep
}
