// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, timeouts). AppConfig is everything specific to
// this application: database connection strings, signing keys, and the
// knobs of the domain itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections kept warm in the pool

	// Authentication configuration
	JWTKey            string // HS256 signing key for session tokens (must be strong in production)
	CryptKey          string // Shared passphrase for transport-encrypted passwords
	MinPasswordLength int    // Minimum accepted password length at registration

	// GitHub integration configuration
	GithubTimeout time.Duration // Per-call timeout for GitHub REST requests
}
