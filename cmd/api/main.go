package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"peterpainter/internal/config"
	"peterpainter/internal/database"
	"peterpainter/internal/domain/painting"
	"peterpainter/internal/domain/upload"
	"peterpainter/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Dialect(), cfg.DSN(), cfg.DBLogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A store that is down at startup is logged, not fatal: requests fail
	// at the store call and /health reports degraded until it comes back.
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := database.Ping(pingCtx, db); err != nil {
		log.Printf("Database connection failed: %v", err)
		go migrateWhenReady(ctx, db, cfg)
	} else {
		log.Printf("Connected to %s", cfg.Dialect())
		if err := database.Migrate(db, &painting.Painting{}); err != nil {
			log.Printf("Warning: Migration failed: %v", err)
		}
	}
	cancelPing()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	router := server.NewRouter(server.Deps{
		DB:              db,
		Blobs:           blobs,
		PublicDir:       cfg.PublicDir,
		MaxUploadMemory: cfg.MaxUploadMemory,
		AccessLog:       true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running at http://localhost%s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}

func migrateWhenReady(ctx context.Context, db *gorm.DB, cfg *config.Config) {
	err := database.MigrateWhenReady(ctx, db, cfg.DBRetryInterval, &painting.Painting{})
	switch {
	case err == nil:
		log.Printf("Connected to %s, schema migrated", cfg.Dialect())
	case errors.Is(err, context.Canceled):
		// shutting down before the store came back
	default:
		log.Printf("Warning: Migration failed: %v", err)
	}
}

func newBlobStore(cfg *config.Config) (upload.Store, error) {
	if cfg.BlobBackend != config.BlobBackendMinio {
		return upload.NewDiskStore(cfg.UploadDir)
	}

	client, err := upload.NewMinioClient(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return upload.NewMinioStore(ctx, client, cfg.Minio.Bucket)
}
