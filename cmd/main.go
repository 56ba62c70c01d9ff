package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	httpctx "github.com/dtroode/groupfeed/internal/api/http/context"
	"github.com/dtroode/groupfeed/internal/api/http/cookie"
	"github.com/dtroode/groupfeed/internal/api/http/handler"
	"github.com/dtroode/groupfeed/internal/api/http/router"
	httpServer "github.com/dtroode/groupfeed/internal/api/http/server"
	"github.com/dtroode/groupfeed/internal/backend"
	"github.com/dtroode/groupfeed/internal/config"
	"github.com/dtroode/groupfeed/internal/linkify"
	"github.com/dtroode/groupfeed/internal/logger"
	"github.com/dtroode/groupfeed/internal/model"
	"github.com/dtroode/groupfeed/internal/repository/postgres"
	"github.com/dtroode/groupfeed/internal/server"
	"github.com/dtroode/groupfeed/internal/service"
	storage "github.com/dtroode/groupfeed/internal/storage/minio"
	"github.com/dtroode/groupfeed/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	backendClient := backend.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, cfg.Backend.Timeout)
	tokenManager := token.NewJWT(cfg.JWT.Secret)

	var (
		archiveStore model.ArchiveStore = backendClient
		profileStore model.ProfileStore = backendClient
	)
	if cfg.Backend.Driver == config.DriverPostgres {
		db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
		if err != nil {
			logger.Fatal("failed to initialize database", "error", err)
		}
		defer db.Close()

		archiveStore = postgres.NewArchiveRepository(db.DB())
		profileStore = postgres.NewProfileRepository(db.DB())
	}

	pictureStore, err := newPictureStore(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	sessionService := service.NewSession(backendClient, tokenManager, logger)
	archiveService := service.NewArchive(archiveStore, profileStore, pictureStore, cfg.Origin, cfg.CacheTTL, logger)

	linker, err := linkify.New(cfg.Origin)
	if err != nil {
		logger.Fatal("failed to initialize linkifier", "error", err)
	}
	renderer, err := handler.NewRenderer(linker, logger)
	if err != nil {
		logger.Fatal("failed to initialize renderer", "error", err)
	}

	r := router.New(
		sessionService,
		archiveService,
		httpctx.NewManager(),
		renderer,
		cookie.NewJar(cfg.HTTP.EnableHTTPS),
		logger,
	)
	srv := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

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
		logger.Info("Starting server on", "address", s.Address(), "driver", cfg.Backend.Driver)
		err := s.Start(sl)
		if err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(srv)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	archiveService.Wait()
	logger.Info("shutdown complete")
}

func newPictureStore(ctx context.Context, cfg config.Storage) (model.PictureStore, error) {
	if !cfg.Presign {
		return storage.NewPublicClient(cfg.PublicBaseURL), nil
	}

	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return storage.NewClient(ctx, minioClient, cfg.Bucket)
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
