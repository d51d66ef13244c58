package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"mealplanner/internal/mealplan"
	"mealplanner/internal/recipes"
	"mealplanner/internal/shared/config"
	"mealplanner/internal/shared/server"
	"mealplanner/internal/shared/server/middleware"
	"mealplanner/internal/shared/storage/db"
	"mealplanner/internal/shared/storage/object"
	localstore "mealplanner/internal/shared/storage/object/local"
	s3store "mealplanner/internal/shared/storage/object/s3"
	"mealplanner/internal/users"
)

// App holds shared dependencies for the API server and the importer.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore

	RecipesRepo recipes.Repo
	HistoryRepo users.Repo
	Catalog     *recipes.Catalog
	Refresher   *recipes.Refresher

	RecipesService  *recipes.Service
	UsersService    *users.Service
	MealPlanService *mealplan.Service

	RecipesHandler  *recipes.Handler
	UsersHandler    *users.Handler
	MealPlanHandler *mealplan.Handler
}

// Build prepares the server dependencies and router.
func Build(cfg config.Config) (*App, error) {
	return build(context.Background(), cfg, db.DefaultServerOptions(), true)
}

// BuildImporter prepares dependencies for a batch import. It uses a small
// connection pool and no router.
func BuildImporter(ctx context.Context, cfg config.Config) (*App, error) {
	return build(ctx, cfg, db.DefaultImportOptions(), false)
}

func build(ctx context.Context, cfg config.Config, opts db.Options, withRouter bool) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg, opts, withRouter)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	cache, err := buildCache(ctx, app)
	if err != nil {
		return nil, err
	}

	if err := buildServices(app, cache); err != nil {
		return nil, err
	}

	if withRouter {
		app.Router = server.NewRouter(server.RouterDeps{
			Config:      app.Config,
			Handlers:    []server.RouteRegistrar{app.RecipesHandler, app.MealPlanHandler, app.UsersHandler},
			RateLimiter: middleware.NewRateLimiter(nil),
			Checks:      app.healthChecks(),
		})
	}

	return app, nil
}

func (a *App) healthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if a.DB != nil {
		checks["database"] = a.DB.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases the database and redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config, opts db.Options, shared bool) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	opts = db.OptionsFromEnv(opts)
	if shared {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildCache(ctx context.Context, app *App) (recipes.Cache, error) {
	cfg := app.Config
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return recipes.NewMemoryCache(cfg.CacheSlidingTTL, nil), nil
	}
	client, err := recipes.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: redis unavailable; using in-memory query cache: %v", err)
			return recipes.NewMemoryCache(cfg.CacheSlidingTTL, nil), nil
		}
		return nil, err
	}
	app.Redis = client
	return recipes.NewRedisCache(client, cfg.CacheSlidingTTL), nil
}

func buildServices(app *App, cache recipes.Cache) error {
	if app.DB != nil {
		app.RecipesRepo = &recipes.PGRepo{DB: app.DB}
		app.HistoryRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.RecipesRepo = recipes.NewMemoryRepo()
		app.HistoryRepo = users.NewMemoryRepo()
	}

	cfg := app.Config
	app.Catalog = recipes.NewCatalog(app.RecipesRepo)
	if cfg.CatalogRefreshSpec != "" {
		app.Refresher = recipes.NewRefresher(app.Catalog, cfg.CatalogRefreshSpec)
	}

	recipeSvc := recipes.NewService(
		app.RecipesRepo,
		app.Catalog,
		&recipes.QueryCache{Store: cache},
		recipes.IngredientMatcher{
			Mode:    recipes.ParseMatchMode(cfg.IngredientMatchMode),
			Workers: cfg.FilterWorkers,
		},
	)
	if cfg.DefaultIngredientMatch > 0 {
		recipeSvc.DefaultPercent = cfg.DefaultIngredientMatch
	}

	userSvc := users.NewService(app.HistoryRepo, cfg.HistoryWindow)
	planSvc := mealplan.NewService(app.Catalog, userSvc, mealplan.NewMatcher(cfg.MatcherTopK, cfg.MatcherSeed))

	app.RecipesService = recipeSvc
	app.UsersService = userSvc
	app.MealPlanService = planSvc
	app.RecipesHandler = recipes.NewHandler(recipeSvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.MealPlanHandler = mealplan.NewHandler(planSvc)

	if app.RecipesHandler == nil || app.MealPlanHandler == nil || app.UsersHandler == nil {
		return errors.New("failed to initialize handlers")
	}
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
