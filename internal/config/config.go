package config

type Config interface {
	EnvConfig
	AuthConfig
	StoreConfig
}

type mainConfig struct {
	EnvVars
	Auth
	Store
}

func New() Config {
	return mainConfig{}
}
