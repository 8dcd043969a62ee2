// Command portfolio-server starts the portfolio REST API and its gRPC health listener.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/portfolio-api/internal/config"
	"github.com/and161185/portfolio-api/internal/crypto"
	"github.com/and161185/portfolio-api/internal/limiter"
	"github.com/and161185/portfolio-api/internal/migrate"
	"github.com/and161185/portfolio-api/internal/repository/postgres"
	grpcserver "github.com/and161185/portfolio-api/internal/server/grpc"
	httpserver "github.com/and161185/portfolio-api/internal/server/http"
	"github.com/and161185/portfolio-api/internal/service"
	"github.com/and161185/portfolio-api/internal/storage"
	"github.com/and161185/portfolio-api/internal/token"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

const (
	shutdownTimeout = 10 * time.Second
	healthInterval  = 5 * time.Second
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("http", cfg.HTTPAddr),
		zap.String("ops", cfg.OpsAddr),
		zap.String("storage", cfg.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Dev {
		zc = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zc.Level = lvl
	return zc.Build()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	if err := migrate.Up(ctx, cfg.DSN); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(db)
	postRepo := postgres.NewPostRepo(db)
	certRepo := postgres.NewCertificateRepo(db)
	skillRepo := postgres.NewSkillRepo(db)

	lim := limiter.New(db.Pool, limiter.Config{
		Window:   cfg.LoginWindow,
		MaxFails: cfg.LoginMaxFails,
		BlockFor: cfg.LoginBlockFor,
	})

	secret := []byte(cfg.JWTKey)
	if len(secret) == 0 {
		if secret, err = token.NewSecret(); err != nil {
			return fmt.Errorf("jwt secret: %w", err)
		}
		logger.Warn("no jwt key configured, using a per-process random key")
	}
	tokens, err := token.NewManager(secret, cfg.AccessTTL)
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}
	hasher := crypto.NewHasher(crypto.BcryptAvailable(), 0, logger.Named("passhash"))

	store, staticDir, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	// Remote stores are streamed through the API unless references point elsewhere.
	var artifacts httpserver.ArtifactSource
	if src, ok := store.(httpserver.ArtifactSource); ok && staticDir == "" && !cfg.ExternalPrefix() {
		artifacts = src
	}
	files := storage.NewUploader(store, cfg.PublicPrefix, logger.Named("storage"),
		storage.WithStrictCleanup(cfg.StrictCleanup))

	// Services
	authSvc := service.NewAuthService(userRepo, hasher, tokens, lim, logger.Named("auth"))
	postSvc := service.NewPostService(postRepo, files, logger.Named("posts"))
	certSvc := service.NewCertificateService(certRepo, files, logger.Named("certificates"))
	skillSvc := service.NewSkillService(skillRepo, logger.Named("skills"))

	created, err := authSvc.EnsureAdmin(ctx, cfg.AdminUser, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		logger.Info("admin user created", zap.String("username", cfg.AdminUser))
	}
	if n, err := skillSvc.Seed(ctx); err != nil {
		logger.Error("seed skills", zap.Error(err))
	} else if n > 0 {
		logger.Info("skills seeded", zap.Int("count", n))
	}

	api := httpserver.New(httpserver.Deps{
		Auth:           authSvc,
		Posts:          postSvc,
		Certificates:   certSvc,
		Skills:         skillSvc,
		StaticDir:      staticDir,
		Artifacts:      artifacts,
		StaticPrefix:   cfg.PublicPrefix,
		AllowedOrigins: cfg.AllowedOrigins,
		Log:            logger.Named("http"),
	})
	httpLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", httpLis.Addr().String()))
		return api.Serve(httpLis)
	})

	var ops *grpcserver.Server
	if cfg.OpsAddr != "" {
		opsLis, err := net.Listen("tcp", cfg.OpsAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen ops: %w", err)
		}
		ops = grpcserver.New(logger.Named("grpc"), cfg.Dev)
		g.Go(func() error {
			logger.Info("ops listening", zap.String("addr", opsLis.Addr().String()))
			return ops.Serve(opsLis)
		})
		g.Go(func() error { return ops.Watch(gctx, db, healthInterval) })
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if ops != nil {
			ops.Stop(shutdownTimeout)
		}
		return api.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// newStore picks the artifact backend. The returned directory is served
// statically and is empty for remote backends.
func newStore(ctx context.Context, cfg config.Config) (storage.Store, string, error) {
	switch cfg.Backend {
	case config.BackendS3:
		s, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "", nil
	default:
		l, err := storage.NewLocal(cfg.UploadDir, storage.CategoryPosts, storage.CategoryCertificates)
		if err != nil {
			return nil, "", fmt.Errorf("upload dir: %w", err)
		}
		return l, l.Root(), nil
	}
}
