package config

// EnvPrefix is handed to envconfig; every field carries its full key anyway.
const EnvPrefix = "FUELTRIPS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv = "FUELTRIPS_APP_ENV"
	EnvPort   = "FUELTRIPS_APP_PORT"

	EnvDBDSN      = "FUELTRIPS_DB_DSN"
	EnvDBDriver   = "FUELTRIPS_DB_DRIVER"
	EnvDBHost     = "FUELTRIPS_DB_HOST"
	EnvDBUser     = "FUELTRIPS_DB_USER"
	EnvDBName     = "FUELTRIPS_DB_NAME"
	EnvDBPassword = "FUELTRIPS_DB_PASSWORD"

	EnvJWTSecret = "FUELTRIPS_JWT_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
