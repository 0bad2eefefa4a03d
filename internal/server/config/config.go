// Package config handles configuration for the colorcheck server: defaults,
// environment (optionally from a .env file), a JSON file and command-line
// flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the colorcheck server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP/JSON API.
//   - EndpointAddrGRPC: bind address of the gRPC health endpoint; empty disables it.
//   - DatabaseDSN: database URL; sqlite:// and postgres:// schemes are supported.
//   - AdminPassword: password given to the bootstrap "admin" account when it is created.
//   - ExposeUserTokens: whether GET /users includes api_token for each user.
//   - RedisAddr / TokenCacheTTL: optional Redis cache in front of token lookups.
//   - StaticDir: directory served under /static when it exists.
//   - AllowOrigins: comma separated CORS origins, "*" allows all.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	DatabaseDSN      string
	AdminPassword    string
	ExposeUserTokens bool
	RedisAddr        string
	TokenCacheTTL    time.Duration
	StaticDir        string
	AllowOrigins     string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the admin password default is public knowledge; override it in production.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "sqlite:///pantone.db"
	c.AdminPassword = "admin123"
	c.ExposeUserTokens = true
	c.RedisAddr = ""
	c.TokenCacheTTL = 10 * time.Minute
	c.StaticDir = "static"
	c.AllowOrigins = "*"
}

// DefaultEnvFile is read, when present, before the process environment.
const DefaultEnvFile = ".env"

// LoadEnvConfig builds a Config from defaults and the environment only.
// Tools that share os.Args with their own flags use it.
func LoadEnvConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, envLookup(DefaultEnvFile))
	return cfg
}

// LoadConfig builds a Config from defaults, then environment, then an
// optional JSON file and finally command-line flags.
func LoadConfig() *Config {
	cfg := LoadEnvConfig()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
