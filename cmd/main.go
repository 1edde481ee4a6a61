package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpctx "github.com/homeward-labs/homegate-server/internal/api/http/context"
	"github.com/homeward-labs/homegate-server/internal/api/http/router"
	"github.com/homeward-labs/homegate-server/internal/config"
	"github.com/homeward-labs/homegate-server/internal/logger"
	"github.com/homeward-labs/homegate-server/internal/model"
	"github.com/homeward-labs/homegate-server/internal/repository/postgres"
	"github.com/homeward-labs/homegate-server/internal/server"
	"github.com/homeward-labs/homegate-server/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Bootstrap.Enabled {
		if err := bootstrap(ctx, db, cfg.Bootstrap, logger); err != nil {
			logger.Fatal("failed to bootstrap schema", "error", err)
		}
	}

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)

	authService := service.NewAuth(userRepo, sessionRepo, logger)
	deviceService := service.NewDevices(deviceRepo, logger)
	ctxMgr := httpctx.NewManager()

	r := router.New(authService, deviceService, ctxMgr, logger)
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

type seedFile struct {
	Users   []model.SeedUser   `json:"users"`
	Devices []model.SeedDevice `json:"devices"`
}

// bootstrap resets the schema and seeds it from the configured file. Seed
// passwords arrive in the clear and are hashed before they touch the store.
func bootstrap(ctx context.Context, db *postgres.Connection, cfg config.Bootstrap, logger *logger.Logger) error {
	var seed seedFile
	if cfg.SeedFile != "" {
		data, err := os.ReadFile(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
		if err := json.Unmarshal(data, &seed); err != nil {
			return fmt.Errorf("failed to parse seed file: %w", err)
		}
		for i, u := range seed.Users {
			hash, err := service.HashPassword(u.PasswordHash)
			if err != nil {
				return fmt.Errorf("failed to hash seed password for %s: %w", u.Username, err)
			}
			seed.Users[i].PasswordHash = hash
		}
	}

	return postgres.NewSchemaManager(db, logger).Bootstrap(ctx, seed.Users, seed.Devices)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
