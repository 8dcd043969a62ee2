package config

import (
	"flag"
	"fmt"
	"strings"
)

// parseFlags overlays command-line flags onto cfg.
//
// Flags mirror the environment variables in lower-case kebab form, e.g.
// -http-addr, -database-dsn, -storage-backend, -allowed-origins a,b.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("portfolio-server", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.OpsAddr, "ops-addr", cfg.OpsAddr, "gRPC health listen address, empty to disable")
	fs.StringVar(&cfg.DSN, "database-dsn", cfg.DSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTKey, "jwt-key", cfg.JWTKey, "HS256 signing key; random per process when empty")
	fs.DurationVar(&cfg.AccessTTL, "access-ttl", cfg.AccessTTL, "access token lifetime")

	fs.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "local artifact root")
	fs.StringVar(&cfg.PublicPrefix, "public-prefix", cfg.PublicPrefix, "URL prefix of stored artifacts")
	fs.StringVar(&cfg.Backend, "storage-backend", cfg.Backend, "artifact backend: local or s3")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "S3-compatible endpoint, e.g. MinIO")
	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.BoolVar(&cfg.StrictCleanup, "strict-cleanup", cfg.StrictCleanup, "fail deletions when the artifact cannot be removed")

	fs.StringVar(&cfg.AdminUser, "admin-user", cfg.AdminUser, "bootstrap admin username")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "bootstrap admin password")
	origins := fs.String("allowed-origins", strings.Join(cfg.AllowedOrigins, ","), "comma-separated CORS origins")

	fs.DurationVar(&cfg.LoginWindow, "login-window", cfg.LoginWindow, "failed login counting window")
	fs.IntVar(&cfg.LoginMaxFails, "login-max-fails", cfg.LoginMaxFails, "failures before block, 0 disables")
	fs.DurationVar(&cfg.LoginBlockFor, "login-block-for", cfg.LoginBlockFor, "block duration")

	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development logging and gRPC reflection")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.AllowedOrigins = splitList(*origins)
	return nil
}
