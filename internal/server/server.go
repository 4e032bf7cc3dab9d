package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/pressline/apiserver/config"
	"github.com/pressline/apiserver/internal/db"
	"github.com/pressline/apiserver/internal/handlers"
	"github.com/pressline/apiserver/internal/mq"
	"github.com/pressline/apiserver/internal/services"
	"github.com/pressline/apiserver/internal/storage"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/internal/ws"
)

// Server wraps the HTTP server, router, and the long-lived resources
// behind it.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	hub        *ws.Hub
	publisher  mq.Publisher
	log        *slog.Logger
}

// New constructs a Server with all repositories, services, and routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := mq.NewPublisher(ctx, cfg.Broker)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	archive, err := storage.NewArchive(ctx, cfg.Archive)
	if err != nil {
		_ = dbConn.Close()
		_ = publisher.Close()
		return nil, err
	}
	if archive != nil {
		if err := archive.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			_ = publisher.Close()
			return nil, err
		}
	}

	userRepo := store.NewUserRepository(dbConn)
	jobTypeRepo := store.NewJobTypeRepository(dbConn)
	timeclockRepo := store.NewTimeclockRepository(dbConn)
	productionRepo := store.NewProductionRepository(dbConn)
	reportRepo := store.NewReportRepository(dbConn)

	hub := ws.NewHub(log)

	userService := services.NewUserService(userRepo)
	jobTypeService := services.NewJobTypeService(jobTypeRepo)
	timeclockService := services.NewTimeclockService(timeclockRepo, productionRepo, userRepo, jobTypeRepo, publisher, log)
	statsService := services.NewStatsService(userRepo, timeclockRepo, productionRepo)
	productionService := services.NewProductionService(productionRepo, userRepo, jobTypeRepo, hub, publisher, log)
	reportService := services.NewReportService(reportRepo, timeclockRepo)
	exportService := services.NewExportService(reportService, archive, log)

	authMiddleware := handlers.RequireAuth(cfg.JWTSecret)
	wsHandler := handlers.NewWSHandler(hub, log)

	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)

	router.Get("/healthz", handlers.Healthz)
	router.Get("/ws", wsHandler.Serve)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, cfg.JWTSecret)
	})
	router.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService)
		})
		r.Route("/jobTypes", func(r chi.Router) {
			handlers.JobTypeRouter(r, jobTypeService)
		})
		r.Route("/timeclock", func(r chi.Router) {
			handlers.TimeclockRouter(r, timeclockService, jobTypeService, hub)
		})
		r.Route("/production", func(r chi.Router) {
			handlers.ProductionRouter(r, productionService)
		})
		r.Route("/stats", func(r chi.Router) {
			handlers.StatsRouter(r, statsService)
		})
		r.Route("/reports", func(r chi.Router) {
			handlers.ReportRouter(r, reportService, exportService)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		hub:        hub,
		publisher:  publisher,
		log:        log,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("server listening", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	s.hub.CloseAll()
	if s.publisher != nil {
		_ = s.publisher.Close()
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return s.httpServer.Close()
}
