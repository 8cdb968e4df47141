package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/recipe-cart/internal/cfg"
	v1Grpc "github.com/DRSN-tech/recipe-cart/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/recipe-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/recipe-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/recipe-cart/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/recipe-cart/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/recipe-cart/internal/repository/minio"
	"github.com/DRSN-tech/recipe-cart/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/recipe-cart/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recipe-cart/internal/repository/redis"
	redisConv "github.com/DRSN-tech/recipe-cart/internal/repository/redis/converter"
	"github.com/DRSN-tech/recipe-cart/internal/usecase"
	"github.com/DRSN-tech/recipe-cart/pkg/clients"
	"github.com/DRSN-tech/recipe-cart/pkg/closer"
	"github.com/DRSN-tech/recipe-cart/pkg/e"
	"github.com/DRSN-tech/recipe-cart/pkg/logger"
	"github.com/DRSN-tech/recipe-cart/pkg/postgres"
	"github.com/DRSN-tech/recipe-cart/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout      = 10 * time.Second
	topicTimeout     = 10 * time.Second
	shutdownTimeout  = 15 * time.Second
	forcedCloseLimit = 3 * time.Second
)

// App держит собранные компоненты сервиса и порядок их остановки.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker

	// bgCtx отменяется при остановке и прерывает фоновые задачи (outbox, удаление обложек).
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

// NewApp подключается к внешним системам и собирает зависимости.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	bgCtx, bgCancel := context.WithCancel(context.Background())

	a := &App{
		cfg:      cfg,
		logger:   log,
		closer:   closer.NewCloser(forcedCloseLimit),
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}

	if err := a.init(); err != nil {
		_ = a.shutdown()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	// === PostgreSQL ===
	db, err := initPGDB(ctx, log, cfg)
	if err != nil {
		return err
	}
	a.closer.AddFunc("postgres", db.Close)

	trManager := tr.NewManager(db.Pool)

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConv{})
	recipeRepo := pgdb.NewRecipeRepo(db.Pool, pgdbConv.RecipeConv{})
	ingredientRepo := pgdb.NewIngredientRepo(db.Pool, pgdbConv.IngredientConv{})
	orderRepo := pgdb.NewOrderRepo(db.Pool, pgdbConv.OrderConv{})
	userRepo := pgdb.NewUserRepo(db.Pool, pgdbConv.UserConv{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConv{})

	// === Redis ===
	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	if err := redisClient.Ping(ctx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return err
	}

	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.ProductConv{}, cfg.Redis, log)
	tokenRepo := redis.NewTokenRepo(redisClient)

	// Отменяется после ожидания фоновых удалений в MinIO, но до закрытия хранилищ.
	a.closer.AddFunc("background tasks", a.bgCancel)

	// === MinIO ===
	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return err
	}
	if err := clients.EnsureBucket(ctx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return err
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, a.bgCtx)
	a.closer.Add("minio cleanup", func(ctx context.Context) error {
		if err := imagesInfra.WaitForCleanup(ctx); err != nil {
			log.Warnf("MinIO cleanup did not finish before shutdown, some stale objects may remain")
			return err
		}
		return nil
	})

	// === Kafka ===
	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		log.Errorf(err, "failed to ensure kafka topic %s", cfg.Kafka.Topic)
		return err
	}

	// === Use cases ===
	authUC := usecase.NewAuthUC(
		userRepo,
		tokenRepo,
		auth.NewJWTManager(cfg.Auth),
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		log,
	)
	productUC := usecase.NewProductUC(productRepo, cacheRepo, log)
	recipeUC := usecase.NewRecipeUC(recipeRepo, imagesInfra, log)
	ingredientUC := usecase.NewIngredientUC(ingredientRepo, recipeRepo, productRepo, log)
	orderUC := usecase.NewOrderUC(
		productRepo,
		recipeRepo,
		ingredientRepo,
		orderRepo,
		userRepo,
		outboxRepo,
		kafka.NewProtoEventEncoder(),
		trManager,
		log,
	)

	if cfg.Admin.Email != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Errorf(err, "failed to ensure admin account")
			return err
		}
	}

	// === Outbox ===
	a.worker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Outbox, db.Dsn)
	a.closer.Add("outbox worker", a.worker.Stop)

	// === Delivery ===
	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.UseCases{
		Auth:         authUC,
		Products:     productUC,
		Recipes:      recipeUC,
		Ingredients:  ingredientUC,
		Orders:       orderUC,
		MaxImageSize: cfg.Minio.MaxImageSize,
	})
	a.httpSrv = v1Http.NewServer(r, cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, log)
	a.closer.Add("grpc server", func(ctx context.Context) error {
		if err := a.grpcSrv.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	})

	return nil
}

// Run запускает серверы и outbox-воркер и блокируется до сигнала остановки или падения сервера.
func (a *App) Run() error {
	log := a.logger

	a.worker.Start(a.bgCtx)

	errCh := make(chan error, 2)

	go func() {
		log.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()

	go func() {
		log.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		log.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		log.Infof("Received %s, stopping gracefully...", sig)
	}

	if err := a.shutdown(); err != nil && appErr == nil {
		appErr = err
	}

	log.Infof("Application shutdown complete")
	return appErr
}

// shutdown останавливает компоненты в обратном порядке регистрации: сначала входящий трафик, затем воркеры, затем хранилища.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer a.bgCancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Errorf(err, "graceful shutdown failed")
		return err
	}

	return nil
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger, postgres.DefaultMigrationsSource); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
