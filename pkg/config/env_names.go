package config

const EnvPrefix = "TACO"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	RemoteBackendREST = "rest"
	RemoteBackendSQL  = "sql"
)

const (
	EnvAppEnv        = "TACO_APP_ENV"
	EnvPort          = "TACO_APP_PORT"
	EnvRemoteBackend = "TACO_REMOTE_BACKEND"
	EnvRemoteBaseURL = "TACO_REMOTE_BASE_URL"
	EnvDBDSN         = "TACO_DB_DSN"
	EnvDBHost        = "TACO_DB_HOST"
	EnvDBUser        = "TACO_DB_USER"
	EnvDBName        = "TACO_DB_NAME"
	EnvRedisURL      = "TACO_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
