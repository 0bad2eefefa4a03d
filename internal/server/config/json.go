package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/colorcheck/internal/flagx"
	"github.com/dmitrijs2005/colorcheck/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Absent fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	EndpointAddrHTTP string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string          `json:"database_dsn"`
	AdminPassword    string          `json:"admin_password"`
	ExposeUserTokens *bool           `json:"expose_user_tokens"`
	RedisAddr        string          `json:"redis_addr"`
	TokenCacheTTL    *timex.Duration `json:"token_cache_ttl"`
	StaticDir        string          `json:"static_dir"`
	AllowOrigins     string          `json:"allow_origins"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIfNotEmpty := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.AdminPassword, c.AdminPassword)
	setIfNotEmpty(&config.RedisAddr, c.RedisAddr)
	setIfNotEmpty(&config.StaticDir, c.StaticDir)
	setIfNotEmpty(&config.AllowOrigins, c.AllowOrigins)

	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.ExposeUserTokens != nil {
		config.ExposeUserTokens = *c.ExposeUserTokens
	}
	if c.TokenCacheTTL != nil {
		config.TokenCacheTTL = c.TokenCacheTTL.Duration
	}
}
