// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, CORS, request limits); AppConfig is everything specific
// to SprintHub. Values come from environment variables, configuration
// files, or command-line flags, loaded in LoadConfig.
type AppConfig struct {
	// Entity store backend: "mongo" (production) or "memory" (dev/test).
	StoreBackend string

	// MongoDB connection configuration (used when StoreBackend is "mongo").
	MongoURI      string
	MongoDatabase string

	// Session management configuration. The session layer only reads
	// cookies established by the external identity service.
	SessionKey    string
	SessionName   string
	SessionDomain string

	// SuperAdmin bootstrap: email of a user promoted to admin at startup.
	SuperAdminEmail string
}
