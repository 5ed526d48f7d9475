package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "github.com/Aswajit1997/Dicert/api/v1"
	"github.com/Aswajit1997/Dicert/internal/auth"
	"github.com/Aswajit1997/Dicert/internal/cache"
	"github.com/Aswajit1997/Dicert/internal/config"
	"github.com/Aswajit1997/Dicert/internal/db"
	"github.com/Aswajit1997/Dicert/internal/render"
	"github.com/Aswajit1997/Dicert/internal/revoke"
	"github.com/Aswajit1997/Dicert/internal/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	log.Println("✓ Configuration loaded")

	// 2. Initialize MySQL
	if err := db.InitMySQL(cfg.MySQL.DSN); err != nil {
		log.Fatalf("Failed to initialize MySQL: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.Migrate {
		if err := db.Migrate(db.DB); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
			os.Exit(1)
		}
		log.Println("✓ Migrations applied")
	}

	// 3. Initialize Redis
	if err := cache.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	// 4. Initialize JWT
	auth.InitJWT(cfg.JWT.Secret)

	// 5. Object store and render service clients
	store, err := storage.NewMinioStore(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
		os.Exit(1)
	}
	renderer := render.NewHTTPRenderer(cfg.Render)

	// 6. Revocation reconciler worker
	reconciler := revoke.NewReconciler(db.DB, logrus.NewEntry(logrus.StandardLogger()), revoke.ReconcilerConfig{
		Enabled:     cfg.Reconciler.Enabled,
		IntervalSec: cfg.Reconciler.IntervalSec,
	})
	reconciler.Start()
	defer reconciler.Stop()

	// 7. Initialize Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	v1.SetupRouter(r, v1.Deps{
		DB:       db.DB,
		Redis:    cache.Client,
		Config:   cfg,
		Store:    store,
		Renderer: renderer,
	})

	log.Printf("✓ Server starting on %s", cfg.HTTPAddr)

	// Start server
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
