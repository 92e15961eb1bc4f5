package config

const (
	databaseURLVar = "DATABASE_URL"
	redisAddrVar   = "REDIS_ADDR"
	redisPassVar   = "REDIS_PASSWORD"
)

type StoreConfig interface {
	GetDatabaseURL() string
	GetRedisAddr() string
	GetRedisPassword() string
}

type Store struct{}

var _ StoreConfig = Store{}

// GetDatabaseURL returns the Postgres connection string. Empty means run
// with in-memory repositories (local development).
func (Store) GetDatabaseURL() string {
	return GetEnv(databaseURLVar, "")
}

// GetRedisAddr returns the Redis address. Empty means use the in-process
// cache instead.
func (Store) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (Store) GetRedisPassword() string {
	return GetEnv(redisPassVar, "")
}
