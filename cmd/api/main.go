package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-inventory-sales/internal/config"
	"go-inventory-sales/internal/handler"
	"go-inventory-sales/internal/middleware"
	"go-inventory-sales/internal/repository"
	"go-inventory-sales/internal/repository/memory"
	"go-inventory-sales/internal/service"
	"go-inventory-sales/internal/ws"
	"go-inventory-sales/pkg/database"
	"go-inventory-sales/pkg/identity"
	"go-inventory-sales/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup storage
	store, closeStore, err := openStore(cfg.Database, zlog)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Setup identity verifier
	verifier, err := newVerifier(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	// 4. Setup WebSocket hub
	hub := ws.NewHub(zlog.Named("ws"))
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go hub.Run(hubCtx)

	// 5. Dependency injection
	productService := service.NewProductService(store, hub, zlog.Named("product"))
	saleService := service.NewSaleService(store, hub, zlog.Named("sale"))
	dashService := service.NewDashboardService(store, cfg.Inventory.LowStockThreshold, zlog.Named("dashboard"))

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.Server.CORSOrigins}))

	// 7. Routes
	handler.RegisterRoutes(app, handler.Handlers{
		Product:   handler.NewProductHandler(productService),
		Sale:      handler.NewSaleHandler(saleService),
		Dashboard: handler.NewDashboardHandler(dashService),
		WS:        handler.NewWSHandler(hub, verifier, zlog.Named("ws")),
	}, middleware.RequireAuth(verifier, zlog.Named("auth")))

	// 8. Graceful shutdown
	listenErr := make(chan error, 1)
	go func() {
		zlog.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Database.Driver),
			zap.String("auth", cfg.Auth.Provider))
		listenErr <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	stopHub()
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	zlog.Info("server exited")
	return nil
}

func openStore(cfg config.DBConfig, zlog *zap.Logger) (repository.Store, func(), error) {
	if cfg.Driver == config.StorageMemory {
		zlog.Warn("using in-memory storage, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := database.ConnectDB(cfg, zlog)
	if err != nil {
		return nil, nil, err
	}
	// AutoMigrate keeps the schema in step for small deployments; use a
	// migration tool once the schema needs data migrations.
	if err := database.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	closeDB := func() {
		if err := database.Close(db); err != nil {
			zlog.Warn("close database", zap.Error(err))
		}
	}
	return repository.NewStore(db), closeDB, nil
}

func newVerifier(ctx context.Context, cfg config.AuthConfig) (identity.Verifier, error) {
	switch cfg.Provider {
	case config.AuthJWT:
		return identity.NewJWTVerifier(cfg.JWT.Secret, cfg.JWT.Issuer), nil
	default:
		return identity.NewFirebaseVerifier(ctx, cfg.Firebase)
	}
}
