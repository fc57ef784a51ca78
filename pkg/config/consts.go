package config

// EnvPrefix is passed to envconfig; individual fields carry fully-qualified
// names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv      = "GAINSCHEF_APP_ENV"
	EnvPort        = "GAINSCHEF_APP_PORT"
	EnvJWTSecret   = "GAINSCHEF_JWT_SECRET"
	EnvJWTIssuer   = "GAINSCHEF_JWT_ISSUER"
	EnvCheckoutURL = "GAINSCHEF_CHECKOUT_BASE_URL"
)

const (
	EnvDBDSN  = "GAINSCHEF_DB_DSN"
	EnvDBHost = "GAINSCHEF_DB_HOST"
	EnvDBUser = "GAINSCHEF_DB_USER"
	EnvDBName = "GAINSCHEF_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
