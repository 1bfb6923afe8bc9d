package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"

	"github.com/ziolkown/cb-5/server"
)

// EnvListen, EnvSecret, and EnvDB are the environment variables c1c serve
// falls back to when neither a config file nor a flag sets the
// corresponding value, mirroring the flag > env > default precedence of
// tqserver's own config loading.
const (
	EnvListen = "C1C_LISTEN_ADDRESS"
	EnvSecret = "C1C_TOKEN_SECRET"
	EnvDB     = "C1C_DATABASE"
)

// fileConfig is the shape of the optional TOML config file read by
// c1c serve --config.
type fileConfig struct {
	ListenAddress     string `toml:"listen_address"`
	TokenSecret       string `toml:"token_secret"`
	DB                string `toml:"db"`
	AdminUser         string `toml:"admin_user"`
	AdminPasswordHash string `toml:"admin_password_hash"`
	UnauthDelayMillis int    `toml:"unauth_delay_millis"`
}

var (
	flagListen            = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret            = pflag.StringP("secret", "s", "", "Use the given secret for signing JWTs.")
	flagDB                = pflag.String("db", "", "Use the given DB connection string (inmem or sqlite:PATH).")
	flagAdminUser         = pflag.String("admin-user", "", "Username accepted by POST /v1/login.")
	flagAdminPasswordHash = pflag.String("admin-password-hash", "", "Bcrypt hash of the password accepted by POST /v1/login.")
)

// loadServeConfig builds a server.Config from, in increasing priority: its
// defaults, the TOML file at configPath (if non-empty), environment
// variables, and pflag-parsed CLI flags.
func loadServeConfig(configPath string) (server.Config, error) {
	var fc fileConfig
	if configPath != "" {
		if _, err := toml.DecodeFile(configPath, &fc); err != nil {
			return server.Config{}, err
		}
	}

	cfg := server.Config{
		ListenAddress:     firstNonEmpty(fc.ListenAddress, os.Getenv(EnvListen)),
		AdminUser:         firstNonEmpty(fc.AdminUser, ""),
		AdminPasswordHash: firstNonEmpty(fc.AdminPasswordHash, ""),
		UnauthDelayMillis: fc.UnauthDelayMillis,
	}
	if fc.TokenSecret != "" {
		cfg.TokenSecret = []byte(fc.TokenSecret)
	} else if envSecret := os.Getenv(EnvSecret); envSecret != "" {
		cfg.TokenSecret = []byte(envSecret)
	}

	dbConnStr := firstNonEmpty(fc.DB, os.Getenv(EnvDB))

	if pflag.Lookup("listen").Changed {
		cfg.ListenAddress = *flagListen
	}
	if pflag.Lookup("secret").Changed {
		cfg.TokenSecret = []byte(*flagSecret)
	}
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if pflag.Lookup("admin-user").Changed {
		cfg.AdminUser = *flagAdminUser
	}
	if pflag.Lookup("admin-password-hash").Changed {
		cfg.AdminPasswordHash = *flagAdminPasswordHash
	}

	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			return server.Config{}, err
		}
		cfg.DB = db
	}

	cfg = cfg.FillDefaults()
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
