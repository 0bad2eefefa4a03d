package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/colorcheck/internal/flagx"
)

// Flags owned by the server configuration.
var serverFlags = []string{"-a", "-g", "-d", "-p", "-t", "-r", "-e", "-s", "-o"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string     HTTP bind address (":8080")
//	-g string     gRPC health bind address, empty disables (":50051")
//	-d string     database URL (sqlite:///pantone.db, postgres://...)
//	-p string     bootstrap admin password
//	-t bool       expose api tokens in GET /users; use -t=false to hide
//	-r string     Redis address for the token cache
//	-e duration   token cache TTL ("10m")
//	-s string     static files directory
//	-o string     CORS allowed origins, comma separated
//
// Only these flags are looked at; see flagx.FilterArgs.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database URL")
	fs.StringVar(&config.AdminPassword, "p", config.AdminPassword, "bootstrap admin password")
	fs.BoolVar(&config.ExposeUserTokens, "t", config.ExposeUserTokens, "expose api tokens when listing users")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "Redis address for the token cache")
	fs.DurationVar(&config.TokenCacheTTL, "e", config.TokenCacheTTL, "token cache TTL")
	fs.StringVar(&config.StaticDir, "s", config.StaticDir, "static files directory")
	fs.StringVar(&config.AllowOrigins, "o", config.AllowOrigins, "CORS allowed origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
