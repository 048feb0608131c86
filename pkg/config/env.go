package config

// EnvPrefix namespaces every environment variable this service reads.
const EnvPrefix = "AQUASAFI"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv  = "AQUASAFI_APP_ENV"
	EnvAppPort = "AQUASAFI_APP_PORT"
	EnvDBDSN   = "AQUASAFI_DB_DSN"
	EnvDBHost  = "AQUASAFI_DB_HOST"
	EnvDBUser  = "AQUASAFI_DB_USER"
	EnvDBName  = "AQUASAFI_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
