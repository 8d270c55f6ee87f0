// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for WeDev.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_key, etc.
//   - Environment variables: WEDEV_MONGO_URI, WEDEV_JWT_KEY, etc.
//   - Command-line flags: --mongo_uri, --jwt_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "wedev", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session token signing key (must be strong in production)"},
	{Name: "crypt_key", Default: "dev-only-transport-passphrase", Desc: "Passphrase for transport-encrypted passwords (must match the web client)"},
	{Name: "min_password_length", Default: 8, Desc: "Minimum accepted password length at registration"},

	{Name: "github_timeout", Default: "10s", Desc: "Per-call timeout for GitHub REST requests (e.g., 10s, 1m)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "WEDEV", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTKey:            appValues.String("jwt_key"),
		CryptKey:          appValues.String("crypt_key"),
		MinPasswordLength: appValues.Int("min_password_length"),

		GithubTimeout: appValues.Duration("github_timeout", 10*time.Second),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked here to catch configuration errors
// early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.JWTKey == "" || appCfg.JWTKey == "dev-only-change-me-please-0123456789ABCDEF" {
			return fmt.Errorf("jwt_key must be set to a strong value in production")
		}
		if appCfg.CryptKey == "" || appCfg.CryptKey == "dev-only-transport-passphrase" {
			return fmt.Errorf("crypt_key must be set to a strong value in production")
		}
	}

	if appCfg.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be at least 1, got %d", appCfg.MinPasswordLength)
	}

	return nil
}
