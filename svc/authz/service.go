package authz

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/gatekeeper/pkg/audit"
	"github.com/dmitrymomot/gatekeeper/pkg/authz"
	"github.com/dmitrymomot/gatekeeper/pkg/authz/pgstore"
	"github.com/dmitrymomot/gatekeeper/pkg/cache"
	"github.com/dmitrymomot/gatekeeper/pkg/logger"
	"github.com/dmitrymomot/gatekeeper/pkg/pg"
	"github.com/dmitrymomot/gatekeeper/pkg/rbac"
	"github.com/dmitrymomot/gatekeeper/pkg/redis"
	"github.com/dmitrymomot/gatekeeper/pkg/requestid"
	"github.com/dmitrymomot/gatekeeper/pkg/tenant"
)

// Service owns the engine and every connection behind it.
type Service struct {
	Engine  *authz.Engine
	Catalog rbac.Catalog
	Audit   *audit.AsyncLogger

	pool  *pgxpool.Pool
	db    *sql.DB
	redis *goredis.Client
	log   *slog.Logger
}

// New connects the configured backends, applies migrations and builds the
// engine. Extra engine options (for example authz.WithMetrics) are applied last.
func New(ctx context.Context, cfg Config, log *slog.Logger, opts ...authz.Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{log: log.With(logger.Component("authz-service"))}

	catalog, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.Catalog = catalog

	// Postgres and Redis come up independently.
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Store == StorePostgres {
		g.Go(func() error {
			pool, err := pg.Connect(gctx, cfg.Postgres)
			if err != nil {
				return err
			}
			s.pool = pool
			s.db = pg.OpenDB(pool)
			return pgstore.Migrate(gctx, s.db, cfg.Postgres, s.log)
		})
	}
	if cfg.Cache == CacheRedis {
		g.Go(func() error {
			client, err := redis.Connect(gctx, cfg.Redis)
			if err != nil {
				return err
			}
			s.redis = client
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Join(err, s.closeConns())
	}

	var (
		store        authz.Store = authz.NewMemoryStore()
		auditStorage audit.Storage
	)
	if s.db != nil {
		store = pgstore.New(s.db)
		auditStorage = pgstore.NewAuditStorage(s.db)
	} else {
		auditStorage = audit.NewSlogStorage(log)
	}
	s.Audit = audit.NewAsyncLogger(auditStorage, audit.AsyncOptions{BufferSize: cfg.AuditBuffer}, log)

	engineOpts := []authz.Option{
		authz.WithLogger(log),
		authz.WithTimeout(cfg.Timeout),
		authz.WithCacheTTL(cfg.CacheTTL),
		authz.WithVersionStamping(cfg.VersionStamping),
		authz.WithAudit(s.Audit),
		authz.WithAuditAllows(cfg.AuditAllows),
	}
	switch cfg.Cache {
	case CacheRedis:
		engineOpts = append(engineOpts, authz.WithCache(redis.NewStorageWithConfig(s.redis, cfg.Redis)))
	case CacheMemory:
		engineOpts = append(engineOpts, authz.WithCache(cache.New(cfg.CacheSize)))
	}
	s.Engine = authz.New(store, catalog, append(engineOpts, opts...)...)

	s.log.InfoContext(ctx, "authz service ready",
		slog.String("store", cfg.Store),
		slog.String("cache", cfg.Cache),
		slog.Int("roles", len(catalog.Roles())),
	)
	return s, nil
}

// NewLogger builds the service logger from cfg.Log. Records carry the request,
// tenant and principal found in the context.
func NewLogger(cfg Config, opts ...logger.Option) *slog.Logger {
	base := []logger.Option{
		logger.WithConfig(cfg.Log),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			tenant.LoggerExtractor(),
			authz.LoggerExtractor(),
		),
	}
	return logger.New(append(base, opts...)...)
}

func loadCatalog(ctx context.Context, cfg Config) (rbac.Catalog, error) {
	source := rbac.DefaultSource()
	if cfg.RolesFile != "" {
		var err error
		if source, err = rbac.LoadYAMLFile(cfg.RolesFile); err != nil {
			return nil, err
		}
	}
	return rbac.NewCatalog(ctx, source)
}

// Healthcheck pings every configured backend.
func (s *Service) Healthcheck(ctx context.Context) error {
	var errs []error
	if s.pool != nil {
		errs = append(errs, pg.Healthcheck(s.pool)(ctx))
	}
	if s.redis != nil {
		errs = append(errs, redis.Healthcheck(s.redis)(ctx))
	}
	return errors.Join(errs...)
}

// Close drains pending audit events and closes connections.
func (s *Service) Close(ctx context.Context) error {
	var err error
	if s.Audit != nil {
		err = s.Audit.Close(ctx)
	}
	return errors.Join(err, s.closeConns())
}

func (s *Service) closeConns() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.pool != nil {
		s.pool.Close()
	}
	return errors.Join(errs...)
}
