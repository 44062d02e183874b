// Package server initializes and runs the drive backend. It connects the
// document store and the object store, wires the services, handles graceful
// shutdown, and starts the HTTP endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dsmirnov/drivebox/internal/logging"
	"github.com/dsmirnov/drivebox/internal/server/config"
	"github.com/dsmirnov/drivebox/internal/server/httpapi"
	"github.com/dsmirnov/drivebox/internal/server/repositories/nodes"
	"github.com/dsmirnov/drivebox/internal/server/repositories/users"
	"github.com/dsmirnov/drivebox/internal/server/services"
	"github.com/dsmirnov/drivebox/internal/server/storage"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	mongoClient *mongo.Client
	httpServer  *httpapi.Server
}

// NewApp connects both stores and wires the services. The store clients are
// process-wide, created once here and injected into the services; nothing
// looks them up via ambient globals.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)

	userRepo := users.NewMongoRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("user indexes: %w", err)
	}
	nodeRepo := nodes.NewMongoRepository(db)

	s3Client, err := storage.NewS3Client(ctx, storage.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("s3 init: %w", err)
	}

	blobs := storage.NewS3Store(s3Client, cfg.S3Bucket)
	if err := blobs.EnsureBucket(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("bucket bootstrap: %w", err)
	}

	userService := services.NewUserService(userRepo, logger, cfg)
	fileService := services.NewFileService(nodeRepo, blobs, logger, cfg)

	return &App{
		config:      cfg,
		logger:      logger,
		mongoClient: client,
		httpServer:  httpapi.NewServer(cfg, logger, userService, fileService),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// shuts the HTTP server down and disconnects the document store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	app.initSignalHandler(cancelFunc)

	err := app.httpServer.Run(ctx)

	disconnectCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if derr := app.mongoClient.Disconnect(disconnectCtx); derr != nil {
		app.logger.Error(ctx, "mongo disconnect failed", "error", derr)
	}

	return err
}
