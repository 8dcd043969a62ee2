// Package httpserver exposes the portfolio REST API over gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/portfolio-api/internal/model"
	"github.com/and161185/portfolio-api/internal/storage"
)

// AuthAPI is the subset of the auth service used by handlers.
type AuthAPI interface {
	Identifier
	Login(ctx context.Context, username, password, ip string) (model.Tokens, *model.User, error)
}

// PostAPI manages posts.
type PostAPI interface {
	List(ctx context.Context, f model.PostFilter) ([]model.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, p model.Post, image *storage.Upload) (*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, patch model.PostPatch, image *storage.Upload) (*model.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CertificateAPI manages certificates.
type CertificateAPI interface {
	List(ctx context.Context, p model.Page) ([]model.Certificate, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Certificate, error)
	Create(ctx context.Context, c model.Certificate, image *storage.Upload) (*model.Certificate, error)
	Update(ctx context.Context, id uuid.UUID, patch model.CertificatePatch, image *storage.Upload) (*model.Certificate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SkillAPI manages skills.
type SkillAPI interface {
	List(ctx context.Context, f model.SkillFilter) ([]model.Skill, error)
	Featured(ctx context.Context, limit int) ([]model.Skill, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Skill, error)
	Categories(ctx context.Context) ([]string, error)
	CategoryDistribution(ctx context.Context) ([]model.CategoryCount, error)
	ProficiencyStats(ctx context.Context) (model.ProficiencyStats, error)
	Create(ctx context.Context, s model.Skill) (*model.Skill, error)
	Update(ctx context.Context, id uuid.UUID, patch model.SkillPatch) (*model.Skill, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ArtifactSource opens stored artifacts by key. *storage.S3 implements it.
type ArtifactSource interface {
	Open(ctx context.Context, key string) (*storage.Artifact, error)
}

// Deps wires services into the server.
type Deps struct {
	Auth         AuthAPI
	Posts        PostAPI
	Certificates CertificateAPI
	Skills       SkillAPI

	// StaticDir is served under StaticPrefix when non-empty. Otherwise
	// Artifacts, when set, is streamed under StaticPrefix.
	StaticDir    string
	Artifacts    ArtifactSource
	StaticPrefix string

	AllowedOrigins []string
	Log            *zap.Logger
}

// Server is the HTTP API.
type Server struct {
	r    *gin.Engine
	deps Deps
	log  *zap.Logger
	srv  *http.Server
}

// New builds the router. Forwarded-for headers are not trusted.
func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.StaticPrefix == "" {
		deps.StaticPrefix = "/static"
	}
	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(Recover(deps.Log), AccessLog(deps.Log), CORS(deps.AllowedOrigins))

	s := &Server{
		r:    r,
		deps: deps,
		log:  deps.Log,
		srv:  &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second},
	}
	s.routes()
	return s
}

// Handler returns the router for use with httptest or a custom http.Server.
func (s *Server) Handler() http.Handler { return s.r }

func (s *Server) routes() {
	s.r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Portfolio API"})
	})
	switch {
	case s.deps.StaticDir != "":
		s.r.Static(s.deps.StaticPrefix, s.deps.StaticDir)
	case s.deps.Artifacts != nil:
		s.r.GET(s.deps.StaticPrefix+"/*key", s.handleArtifact)
		s.r.HEAD(s.deps.StaticPrefix+"/*key", s.handleArtifact)
	}

	api := s.r.Group("/api")
	auth := RequireUser(s.deps.Auth, s.log)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	api.POST("/login", s.handleLogin)
	api.GET("/me", auth, s.handleMe)

	api.GET("/posts", s.handleListPosts)
	api.GET("/posts/:id", s.handleGetPost)
	api.POST("/posts", auth, s.handleCreatePost)
	api.PUT("/posts/:id", auth, s.handleReplacePost)
	api.PATCH("/posts/:id", auth, s.handlePatchPost)
	api.DELETE("/posts/:id", auth, s.handleDeletePost)

	api.GET("/certificates", s.handleListCertificates)
	api.GET("/certificates/:id", s.handleGetCertificate)
	api.POST("/certificates", auth, s.handleCreateCertificate)
	api.PUT("/certificates/:id", auth, s.handleReplaceCertificate)
	api.PATCH("/certificates/:id", auth, s.handlePatchCertificate)
	api.DELETE("/certificates/:id", auth, s.handleDeleteCertificate)

	api.GET("/skills", s.handleListSkills)
	api.GET("/skills/categories", s.handleSkillCategories)
	api.GET("/skills/featured", s.handleFeaturedSkills)
	api.GET("/skills/stats/category-distribution", s.handleCategoryDistribution)
	api.GET("/skills/stats/proficiency-levels", s.handleProficiencyLevels)
	api.GET("/skills/:id", s.handleGetSkill)
	api.POST("/skills", auth, s.handleCreateSkill)
	api.PUT("/skills/:id", auth, s.handleUpdateSkill)
	api.DELETE("/skills/:id", auth, s.handleDeleteSkill)
}

// Serve runs the API on lis until Shutdown.
func (s *Server) Serve(lis net.Listener) error {
	err := s.srv.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
