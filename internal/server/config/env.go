package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDatabaseURL      = "DATABASE_URL"
	EnvHTTPAddr         = "HTTP_ADDR"
	EnvGRPCAddr         = "GRPC_ADDR"
	EnvAdminPassword    = "ADMIN_PASSWORD"
	EnvExposeUserTokens = "EXPOSE_USER_TOKENS"
	EnvRedisAddr        = "REDIS_ADDR"
	EnvTokenCacheTTL    = "TOKEN_CACHE_TTL"
	EnvStaticDir        = "STATIC_DIR"
	EnvAllowOrigins     = "CORS_ALLOW_ORIGINS"
)

type lookupFunc func(key string) (string, bool)

// envLookup resolves keys from the process environment first and falls back
// to the given .env file. A missing file is not an error.
func envLookup(envFile string) lookupFunc {
	fileValues, err := godotenv.Read(envFile)
	if err != nil {
		fileValues = map[string]string{}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	}
}

// parseEnv overlays environment values onto config. Malformed booleans or
// durations panic, like a malformed JSON config does.
func parseEnv(config *Config, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str(EnvDatabaseURL, &config.DatabaseDSN)
	str(EnvHTTPAddr, &config.EndpointAddrHTTP)
	str(EnvAdminPassword, &config.AdminPassword)
	str(EnvRedisAddr, &config.RedisAddr)
	str(EnvStaticDir, &config.StaticDir)
	str(EnvAllowOrigins, &config.AllowOrigins)

	// an explicitly empty GRPC_ADDR disables the gRPC endpoint
	if v, ok := lookup(EnvGRPCAddr); ok {
		config.EndpointAddrGRPC = v
	}

	if v, ok := lookup(EnvExposeUserTokens); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvExposeUserTokens, err))
		}
		config.ExposeUserTokens = b
	}

	if v, ok := lookup(EnvTokenCacheTTL); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvTokenCacheTTL, err))
		}
		config.TokenCacheTTL = d
	}
}
