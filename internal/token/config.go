package token

import (
	"errors"
	"os"
	"time"
)

const (
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// Config holds the per-kind signing secrets and lifetimes.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// ConfigFromEnv reads ACCESS_TOKEN_SECRET, REFRESH_TOKEN_SECRET and TOKEN_ISSUER.
func ConfigFromEnv() Config {
	return Config{
		AccessSecret:  []byte(os.Getenv("ACCESS_TOKEN_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_TOKEN_SECRET")),
		AccessTTL:     AccessTTL,
		RefreshTTL:    RefreshTTL,
		Issuer:        os.Getenv("TOKEN_ISSUER"),
	}
}

func (c Config) validate() error {
	if len(c.AccessSecret) == 0 || len(c.RefreshSecret) == 0 {
		return errors.New("access and refresh token secrets are required")
	}
	if string(c.AccessSecret) == string(c.RefreshSecret) {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("invalid TTL configuration")
	}
	return nil
}
