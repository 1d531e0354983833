package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/corpintra/portal-ui-api/config"
	redisadapter "github.com/corpintra/portal-ui-api/internal/adapters/redis"
	"github.com/corpintra/portal-ui-api/internal/data"
	httpx "github.com/corpintra/portal-ui-api/internal/http"
)

// ServiceDeps contains the shared dependencies for building services.
type ServiceDeps struct {
	Config      config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the fully wired handler sets for the HTTP
// router.
type ServiceContainer struct {
	Auth   AuthServices
	Router httpx.RouterServices
}

// NewServices builds all repositories and handler sets from the shared
// dependencies.
func NewServices(deps ServiceDeps) (*ServiceContainer, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if deps.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	auth := BuildAuthService(AuthConfig{
		Auth:        deps.Config.Auth,
		DB:          deps.DB,
		RedisClient: deps.RedisClient,
		Logger:      deps.Logger,
	})
	if auth.Service == nil {
		return nil, fmt.Errorf("auth service could not be built for mode %q", deps.Config.Auth.Mode)
	}

	cache := redisadapter.NewCache(deps.RedisClient, deps.Config.Cache.KeyPrefix)
	rd := httpx.ResourceDeps{
		Cache:  cache,
		TTL:    deps.Config.Cache.ListTTL,
		Logger: deps.Logger,
	}

	router := httpx.RouterServices{
		Auth: &httpx.AuthHandlers{
			Svc:          auth.Service,
			Flow:         auth.Flow,
			CookieDomain: deps.Config.HTTP.CookieDomain,
			Logger:       deps.Logger,
		},
		Sessions:      auth.Service,
		Employees:     httpx.NewEmployeeHandlers(data.NewEmployeeRepo(deps.DB), rd),
		Violations:    httpx.NewViolationHandlers(data.NewViolationRepo(deps.DB), rd),
		Documents:     httpx.NewDocumentHandlers(data.NewDocumentRepo(deps.DB), rd),
		Announcements: httpx.NewAnnouncementHandlers(data.NewAnnouncementRepo(deps.DB), rd),
		Schedules:     httpx.NewScheduleHandlers(data.NewScheduleRepo(deps.DB), rd),
		News:          httpx.NewNewsHandlers(data.NewNewsRepo(deps.DB), rd),
		Galleries:     httpx.NewGalleryHandlers(data.NewGalleryRepo(deps.DB), rd),
		Roles:         httpx.NewRoleHandlers(data.NewRoleRepo(deps.DB), rd),
	}

	return &ServiceContainer{Auth: auth, Router: router}, nil
}
