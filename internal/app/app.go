package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-drive/internal/config"
	"go-drive/internal/database"
	"go-drive/internal/event"
	"go-drive/internal/handler"
	"go-drive/internal/middleware"
	"go-drive/internal/model"
	"go-drive/internal/repository"
	"go-drive/internal/router"
	"go-drive/internal/service"
	"go-drive/internal/storage"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	itemRepo := repository.NewPgItemRepository(pool)
	auditRepo := repository.NewPgAuditRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)
	slog.Info("database ready")

	var blobs storage.BlobStore = storage.NopBlobStore{}
	if cfg.BlobStoreConfigured() {
		blobs, err = storage.NewMinIO(storage.MinIOConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			Bucket:    cfg.MinIOBucket,
			UseSSL:    cfg.MinIOUseSSL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize object store: %w", err)
		}
	} else {
		slog.Warn("no object store configured; purged blobs will not be cleaned up")
	}

	bus := event.NewBus()

	janitorCtx, janitorCancel := context.WithCancel(context.Background())
	janitor := storage.NewJanitor(blobs, bus)
	go janitor.Run(janitorCtx)

	permService := service.NewPermissionService(model.DefaultRolePermissions(), userRepo)
	auditService := service.NewAuditService(auditRepo, cfg.AuditBufferSize)
	moveService := service.NewMoveService(itemRepo, permService, auditService, bus, cfg.MoveWorkers)
	trashService := service.NewTrashService(itemRepo, permService, auditService, bus)
	directoryService := service.NewDirectoryService(itemRepo, permService, auditService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Directory:  handler.NewDirectoryHandler(directoryService),
		Operations: handler.NewOperationsHandler(moveService),
		Trash:      handler.NewTrashHandler(trashService),
		Audit:      handler.NewAuditHandler(auditService),
		Permission: handler.NewPermissionHandler(permService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				// Drain pending audit writes before the pool closes.
				auditService.Close()
			},
			func() {
				janitorCancel()
			},
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
