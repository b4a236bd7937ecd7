package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "MOBIMART"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv                 = "MOBIMART_APP_ENV"
	EnvPort                   = "MOBIMART_APP_PORT"
	EnvDBDSN                  = "MOBIMART_DB_DSN"
	EnvDBHost                 = "MOBIMART_DB_HOST"
	EnvDBUser                 = "MOBIMART_DB_USER"
	EnvDBName                 = "MOBIMART_DB_NAME"
	EnvRedisURL               = "MOBIMART_REDIS_URL"
	EnvJWTSecret              = "MOBIMART_JWT_SECRET"
	EnvJWTIssuer              = "MOBIMART_JWT_ISSUER"
	EnvJWTExpMins             = "MOBIMART_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MOBIMART_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
