package main

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/stageside/merchtable-backend/internal/modules/auth"
	"github.com/stageside/merchtable-backend/internal/modules/band"
	"github.com/stageside/merchtable-backend/internal/modules/insights"
	"github.com/stageside/merchtable-backend/internal/modules/inventory"
	"github.com/stageside/merchtable-backend/internal/modules/media"
	"github.com/stageside/merchtable-backend/internal/modules/pos"
	"github.com/stageside/merchtable-backend/internal/modules/project"
	"github.com/stageside/merchtable-backend/internal/modules/snapshot"
	"github.com/stageside/merchtable-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on environment")
	}

	// ── Storage provider ────────────────────────────────────
	// Chosen once here; nothing downstream branches on it.
	var (
		userRepo      user.Repository
		bandRepo      band.Repository
		inventoryRepo inventory.Repository
		salesRepo     pos.Repository
		projectRepo   project.Repository
	)
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := sql.Open("postgres", databaseURL)
		if err != nil {
			logrus.WithError(err).Fatal("failed to open database")
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logrus.WithError(err).Fatal("failed to reach database")
		}
		logrus.Info("connected to postgres")

		userRepo = user.NewPostgresRepository(db)
		bandRepo = band.NewPostgresRepository(db)
		inventoryRepo = inventory.NewPostgresRepository(db)
		salesRepo = pos.NewPostgresRepository(db)
		projectRepo = project.NewPostgresRepository(db)
	} else {
		logrus.Warn("DATABASE_URL not set, using in-memory storage")
		userRepo = user.NewMemoryRepository()
		bandRepo = band.NewMemoryRepository()
		inventoryRepo = inventory.NewMemoryRepository()
		salesRepo = pos.NewMemoryRepository()
		projectRepo = project.NewMemoryRepository()
	}

	// ── External collaborators ──────────────────────────────
	var (
		uploader      media.Uploader
		localMediaDir string
	)
	if supabaseURL := os.Getenv("SUPABASE_URL"); supabaseURL != "" {
		uploader = media.NewSupabaseUploader(supabaseURL, os.Getenv("SUPABASE_SERVICE_KEY"), envOr("SUPABASE_BUCKET", "media"))
	} else {
		localMediaDir = envOr("MEDIA_DIR", "data/media")
		uploader = media.NewLocalUploader(localMediaDir, envOr("MEDIA_PUBLIC_URL", "http://localhost:8080/media"))
	}

	var generator insights.Generator
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		generator = insights.NewOpenAIGenerator(apiKey, os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
	} else {
		generator = insights.NewDisabledGenerator()
	}

	jwtSecret := envOr("JWT_SECRET", "dev-secret-change-me")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	if localMediaDir != "" {
		router.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(localMediaDir))))
	}

	// ── Identity ────────────────────────────────────────────
	userService := user.NewService(userRepo)
	user.NewHandler(userService, uploader).RegisterRoutes(router)

	authService := auth.NewService(userRepo, jwtSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Band-scoped API, behind the session middleware ──────
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authService))

		bandService := band.NewService(bandRepo, userRepo)
		band.NewHandler(bandService).RegisterRoutes(r)

		inventoryService := inventory.NewService(inventoryRepo, bandRepo)
		inventory.NewHandler(inventoryService).RegisterRoutes(r)

		posService := pos.NewService(salesRepo, inventoryRepo, bandRepo, userRepo)
		pos.NewHandler(posService).RegisterRoutes(r)

		projectService := project.NewService(projectRepo, bandRepo, userRepo)
		project.NewHandler(projectService).RegisterRoutes(r)

		snapshotService := snapshot.NewService(bandRepo, inventoryRepo, salesRepo, projectRepo)
		snapshot.NewHandler(snapshotService).RegisterRoutes(r)

		insightsService := insights.NewService(salesRepo, bandRepo, generator)
		insights.NewHandler(insightsService).RegisterRoutes(r)

		media.NewHandler(uploader).RegisterRoutes(r)
	})

	// ── Start Server ────────────────────────────────────────
	port := envOr("APP_PORT", "8080")
	logrus.WithField("port", port).Info("merchtable API server starting")
	logrus.Fatal(http.ListenAndServe(":"+port, router))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
