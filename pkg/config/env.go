package config

const (
	EnvPrefix = "SPICEKART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SPICEKART_DB_DSN"
	EnvDBHost = "SPICEKART_DB_HOST"
	EnvDBUser = "SPICEKART_DB_USER"
	EnvDBName = "SPICEKART_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
