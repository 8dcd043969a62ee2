package config

import (
	"fmt"
	"strconv"
	"time"
)

const envPrefix = "PORTFOLIO_"

// applyEnv overlays PORTFOLIO_* variables; unset or empty variables are ignored.
func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(envPrefix + name); v != "" {
			*dst = v
		}
	}
	var err error
	dur := func(name string, dst *time.Duration) {
		v := getenv(envPrefix + name)
		if v == "" || err != nil {
			return
		}
		d, perr := time.ParseDuration(v)
		if perr != nil {
			err = fmt.Errorf("config: %s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = d
	}
	integer := func(name string, dst *int) {
		v := getenv(envPrefix + name)
		if v == "" || err != nil {
			return
		}
		n, perr := strconv.Atoi(v)
		if perr != nil {
			err = fmt.Errorf("config: %s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = n
	}
	boolean := func(name string, dst *bool) {
		v := getenv(envPrefix + name)
		if v == "" || err != nil {
			return
		}
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			err = fmt.Errorf("config: %s%s: %w", envPrefix, name, perr)
			return
		}
		*dst = b
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	str("OPS_ADDR", &cfg.OpsAddr)
	str("DATABASE_DSN", &cfg.DSN)
	str("JWT_KEY", &cfg.JWTKey)
	dur("ACCESS_TTL", &cfg.AccessTTL)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("PUBLIC_PREFIX", &cfg.PublicPrefix)
	str("STORAGE_BACKEND", &cfg.Backend)
	str("S3_BUCKET", &cfg.S3Bucket)
	str("S3_REGION", &cfg.S3Region)
	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("S3_ACCESS_KEY", &cfg.S3AccessKey)
	str("S3_SECRET_KEY", &cfg.S3SecretKey)
	boolean("STRICT_CLEANUP", &cfg.StrictCleanup)
	str("ADMIN_USER", &cfg.AdminUser)
	str("ADMIN_PASSWORD", &cfg.AdminPassword)
	if v := getenv(envPrefix + "ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	dur("LOGIN_WINDOW", &cfg.LoginWindow)
	integer("LOGIN_MAX_FAILS", &cfg.LoginMaxFails)
	dur("LOGIN_BLOCK_FOR", &cfg.LoginBlockFor)
	boolean("DEV", &cfg.Dev)
	str("LOG_LEVEL", &cfg.LogLevel)
	return err
}
