package container

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"library-backend/internal/config"
	"library-backend/internal/domains/author"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"
	"library-backend/internal/domains/book"
	"library-backend/internal/domains/book/notifier"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	"library-backend/internal/domains/user"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
	"library-backend/internal/graphql"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/mongodb"
	"library-backend/internal/infrastructure/pubsub"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/shared/metrics"
	"library-backend/internal/shared/response"
	"library-backend/pkg/cache"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Drivers for the store,
// cache, hub and queue are picked from Config.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	Metrics     *metrics.Metrics
	DB          *database.PostgresDB    // nil unless STORE_DRIVER=postgres
	Mongo       *mongodb.Client         // nil unless STORE_DRIVER=mongo
	Redis       *infraCache.RedisClient // nil unless something needs Redis
	Cache       cache.Cache
	Hub         pubsub.Hub
	AsynqClient *asynq.Client // nil unless QUEUE_ENABLED
	JWTManager  *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo author.Repository
	BookRepo   book.Repository
	UserRepo   user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService author.Service
	BookService   book.Service
	UserService   user.Service

	// ========================================
	// API LAYER
	// ========================================
	GraphQLHandler *graphql.Handler

	localCache *infraCache.LocalCache
	events     interface{ Wait() }
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer loads the configuration from the environment and builds
// the graph
func NewContainer() (*Container, error) {
	logger.Info("Loading configuration...", map[string]interface{}{})

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
		"store":       cfg.Store.Driver,
		"cache":       cfg.Cache.Driver,
		"hub":         cfg.Hub.Driver,
		"queue":       cfg.Queue.Enabled,
	})

	return New(cfg)
}

// New builds the graph in order: infrastructure, repositories, services,
// API. On failure everything opened so far is released.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"store", c.initStore},
		{"cache", c.initCache},
		{"hub", c.initHub},
		{"queue", c.initQueue},
		{"services", c.initServices},
		{"api", c.initAPI},
	}

	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("failed to init %s: %w", step.name, err)
		}
		logger.Info("Initialized "+step.name, map[string]interface{}{})
	}

	logger.Info("DI Container initialized successfully", map[string]interface{}{})
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initStore opens the selected store and builds the three repositories
func (c *Container) initStore(ctx context.Context) error {
	switch c.Config.Store.Driver {
	case config.DriverPostgres:
		if c.Config.Store.AutoMigrate {
			if err := migrate(ctx, c.Config.Database); err != nil {
				return err
			}
		}

		db := database.NewPostgresDB(c.Config.Database)
		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db

		c.AuthorRepo = authorRepo.NewPostgresRepository(db.Pool)
		c.BookRepo = bookRepo.NewPostgresRepository(db.Pool)
		c.UserRepo = userRepo.NewPostgresRepository(db.Pool)

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, mongodb.Config{
			URI:            c.Config.Mongo.URI,
			Database:       c.Config.Mongo.Database,
			ConnectTimeout: c.Config.Mongo.ConnectTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to mongodb: %w", err)
		}
		c.Mongo = client

		c.AuthorRepo = authorRepo.NewMongoRepository(client.DB)
		c.BookRepo = bookRepo.NewMongoRepository(client.DB)
		c.UserRepo = userRepo.NewMongoRepository(client.DB)

	default:
		c.AuthorRepo = authorRepo.NewMemoryRepository()
		c.BookRepo = bookRepo.NewMemoryRepository(c.AuthorRepo)
		c.UserRepo = userRepo.NewMemoryRepository()
	}
	return nil
}

func migrate(ctx context.Context, cfg *database.DBConfig) error {
	m, err := database.OpenMigrator(cfg)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}

// redisClient connects lazily; cache, hub and queue may share it
func (c *Container) redisClient(ctx context.Context) (*redis.Client, error) {
	if c.Redis == nil {
		rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
		if err := rc.Connect(ctx); err != nil {
			rc.Close()
			return nil, err
		}
		c.Redis = rc
	}
	return c.Redis.Client, nil
}

// initCache wraps the user repository with the read-through cache
func (c *Container) initCache(ctx context.Context) error {
	switch c.Config.Cache.Driver {
	case config.DriverRedis:
		client, err := c.redisClient(ctx)
		if err != nil {
			return err
		}
		c.Cache = infraCache.NewRedisCache(client, c.Config.Cache.Prefix)
	default:
		local, err := infraCache.NewLocalCache(c.Config.Cache.MaxBytes)
		if err != nil {
			return err
		}
		c.localCache = local
		c.Cache = local
	}

	c.UserRepo = userRepo.NewCachedRepository(c.UserRepo, c.Cache, c.Config.Cache.TTL, c.Metrics)
	return nil
}

func (c *Container) initHub(ctx context.Context) error {
	switch c.Config.Hub.Driver {
	case config.DriverRedis:
		client, err := c.redisClient(ctx)
		if err != nil {
			return err
		}
		c.Hub = pubsub.NewRedisHub(client, c.Config.Hub.Prefix)
	case config.DriverNATS:
		hub, err := pubsub.NewNATSHub(pubsub.NATSConfig{
			URL:           c.Config.NATS.URL,
			ClientName:    c.Config.App.Name,
			MaxReconnects: c.Config.NATS.MaxReconnects,
			ReconnectWait: c.Config.NATS.ReconnectWait,
			SubjectPrefix: c.Config.Hub.Prefix,
		})
		if err != nil {
			return err
		}
		c.Hub = hub
	default:
		c.Hub = pubsub.NewMemoryHub()
	}
	return nil
}

func (c *Container) initQueue(context.Context) error {
	if !c.Config.Queue.Enabled {
		return nil
	}
	c.AsynqClient = asynq.NewClient(c.AsynqRedisOpt())
	return nil
}

// AsynqRedisOpt is the Redis connection shared by the API's client and the worker
func (c *Container) AsynqRedisOpt() asynq.RedisClientOpt {
	return queue.RedisOpt(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
}

func (c *Container) initServices(context.Context) error {
	c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.Expiry, c.Config.JWT.Issuer)

	hash, err := userService.HashSharedPassword(c.Config.Auth.SharedPassword)
	if err != nil {
		return err
	}
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager, hash)

	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.BookRepo)

	var sink book.EventSink
	if c.AsynqClient != nil {
		n := notifier.NewTaskNotifier(c.AsynqClient, c.Metrics, c.Config.Queue.MaxRetry)
		c.events, sink = n, n
	} else {
		n := notifier.NewHubNotifier(c.Hub, c.Metrics).WithTimeout(c.Config.Hub.PublishTimeout)
		c.events, sink = n, n
	}
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorService, sink)
	return nil
}

func (c *Container) initAPI(context.Context) error {
	schema := graphql.NewSchema(graphql.Dependencies{
		Authors: c.AuthorService,
		Books:   c.BookService,
		Users:   c.UserService,
		Hub:     c.Hub,
		Metrics: c.Metrics,
	}, graphql.Options{MaxDepth: c.Config.GraphQL.MaxDepth})

	c.GraphQLHandler = graphql.NewHandler(schema, c.UserService, c.Metrics)
	return nil
}

// ========================================
// HEALTH
// ========================================

// HealthCheck reports every component; a nil value means healthy
func (c *Container) HealthCheck(ctx context.Context) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	components := map[string]error{}

	switch {
	case c.DB != nil:
		components["store"] = c.DB.HealthCheck(ctx)
	case c.Mongo != nil:
		components["store"] = c.Mongo.HealthCheck(ctx)
	default:
		components["store"] = nil
	}
	if c.Cache != nil {
		components["cache"] = c.Cache.Ping(ctx)
	}
	if c.Hub != nil {
		components["hub"] = c.Hub.HealthCheck(ctx)
	}
	if c.AsynqClient != nil && c.Redis != nil {
		components["queue"] = c.Redis.HealthCheck(ctx)
	}
	return components
}

// HealthHandler serves the aggregated health as JSON
func (c *Container) HealthHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		response.HealthStatus(ctx, c.Config.App.Version, c.HealthCheck(ctx.Request.Context()))
	}
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases resources in reverse order. Safe on a partial graph.
func (c *Container) Cleanup() {
	logger.Info("Cleaning up container resources...", map[string]interface{}{})

	if c.events != nil {
		c.events.Wait()
	}
	if c.Hub != nil {
		if err := c.Hub.Close(); err != nil {
			logger.Error("Failed to close hub", err)
		}
	}
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
	if c.localCache != nil {
		c.localCache.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Close(ctx); err != nil {
			logger.Error("Failed to close MongoDB", err)
		}
	}

	logger.Debug("Container cleanup completed")
}
