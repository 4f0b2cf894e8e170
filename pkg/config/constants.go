package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "labtrack"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv     = "LABTRACK_APP_ENV"
	EnvPort       = "LABTRACK_APP_PORT"
	EnvDBDSN      = "LABTRACK_DB_DSN"
	EnvDBHost     = "LABTRACK_DB_HOST"
	EnvDBUser     = "LABTRACK_DB_USER"
	EnvDBName     = "LABTRACK_DB_NAME"
	EnvRedisURL   = "LABTRACK_REDIS_URL"
	EnvJWTSecret  = "LABTRACK_JWT_SECRET"
	EnvJWTIssuer  = "LABTRACK_JWT_ISSUER"
	EnvJWTExpMins = "LABTRACK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
