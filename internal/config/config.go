package config

import (
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/courtside/pickup/internal/modules/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"

	IdentityProviderURLEnv = "IDENTITY_PROVIDER_URL"
	GeocoderURLEnv         = "GEOCODER_URL"
	GeocoderUserAgentEnv   = "GEOCODER_USER_AGENT"

	CORSAllowedOriginsEnv = "CORS_ALLOWED_ORIGINS"
	RateLimitRequestsEnv  = "RATE_LIMIT_REQUESTS"
	RateLimitWindowEnv    = "RATE_LIMIT_WINDOW"
)

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string

	IdentityProviderURL *url.URL
	GeocoderURL         *url.URL
	GeocoderUserAgent   string

	CORSAllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)
	rootPath := env.MustGetString(RootPathEnv)

	identityProviderURL := env.MustGetURL(IdentityProviderURLEnv)
	geocoderURL := env.MustGetURL(GeocoderURLEnv)
	geocoderUserAgent := env.GetStringOr(GeocoderUserAgentEnv, "pickup-api/1.0")

	corsOrigins := strings.Split(env.GetStringOr(CORSAllowedOriginsEnv, "*"), ",")

	return Config{
		Logger:              logger,
		Port:                port,
		DatabaseURL:         dbURL,
		MigrationsPath:      path.Join(rootPath, "db", "migrations"),
		IdentityProviderURL: identityProviderURL,
		GeocoderURL:         geocoderURL,
		GeocoderUserAgent:   geocoderUserAgent,
		CORSAllowedOrigins:  corsOrigins,
		RateLimitRequests:   env.GetIntOr(RateLimitRequestsEnv, 100),
		RateLimitWindow:     env.GetDurationOr(RateLimitWindowEnv, time.Minute),
	}, nil
}
