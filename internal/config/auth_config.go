package config

import (
	"strconv"
	"time"
)

const (
	authSecretKeyVar          = "AUTH_SECRET_KEY"
	authRefreshSecretKeyVar   = "AUTH_REFRESH_SECRET_KEY"
	authAccessTokenExpiryVar  = "AUTH_ACCESS_TOKEN_EXPIRE_MINUTES"
	authRefreshTokenExpiryVar = "AUTH_REFRESH_TOKEN_EXPIRE_MINUTES"
	roleScopesCacheTTLVar     = "ROLE_SCOPES_CACHE_TTL_MINUTES"

	defaultAccessTokenExpiry  = 15      // minutes
	defaultRefreshTokenExpiry = 24 * 60 // minutes
	defaultRoleScopesCacheTTL = 60      // minutes
)

type AuthConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRoleScopesCacheTTL() time.Duration
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetAccessTokenSecret() string {
	return GetEnv(authSecretKeyVar, "")
}

func (Auth) GetRefreshTokenSecret() string {
	return GetEnv(authRefreshSecretKeyVar, "")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return minutesFromEnv(authAccessTokenExpiryVar, defaultAccessTokenExpiry)
}

func (Auth) GetRefreshTokenExpiry() time.Duration {
	return minutesFromEnv(authRefreshTokenExpiryVar, defaultRefreshTokenExpiry)
}

func (Auth) GetRoleScopesCacheTTL() time.Duration {
	return minutesFromEnv(roleScopesCacheTTLVar, defaultRoleScopesCacheTTL)
}

func minutesFromEnv(envVar string, defaultMinutes int) time.Duration {
	minutes, err := strconv.Atoi(GetEnv(envVar, strconv.Itoa(defaultMinutes)))
	if err != nil || minutes <= 0 {
		minutes = defaultMinutes
	}
	return time.Duration(minutes) * time.Minute
}
