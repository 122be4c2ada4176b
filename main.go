package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/your-username/rfc5424-conformance/internal/api"
	"github.com/your-username/rfc5424-conformance/internal/config"
	"github.com/your-username/rfc5424-conformance/internal/intake"
	"github.com/your-username/rfc5424-conformance/internal/store"
	"github.com/your-username/rfc5424-conformance/internal/websocket"
)

var version = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("version", version).Msg("Starting RFC 5424 conformance harness")

	// Load configuration
	cfg := config.Load()

	// Initialize the optional verdict store
	var db *store.Store
	if cfg.Database.Enabled {
		var err error
		db, err = store.New(cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize verdict store")
		}
		defer db.Close()
	} else {
		log.Info().Msg("Verdict store disabled, running in-memory only")
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Initialize verdict recorder
	recorder := intake.NewRecorder(db, 500, 5*time.Second)
	defer recorder.Stop()

	// Initialize intake handlers
	httpIntake := intake.NewHTTPHandler(recorder, wsHub)

	// Start TCP intake
	tcpServer := intake.NewTCPServer(cfg.Intake.TCPAddr, recorder, wsHub)
	if err := tcpServer.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start TCP intake")
	} else {
		defer tcpServer.Stop()
	}

	// Start UDP intake
	udpServer := intake.NewUDPServer(cfg.Intake.UDPAddr, recorder, wsHub)
	if err := udpServer.Start(); err != nil {
		log.Error().Err(err).Msg("Failed to start UDP intake")
	} else {
		defer udpServer.Stop()
	}

	// Setup routes
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(api.RequireAuth(cfg.JWT.Secret))

		r.Get("/health", api.HealthCheck(db))
		r.Post("/validate", api.ValidateMessage())
		r.Post("/validate/batch", api.ValidateBatch())
		r.Post("/validate/file", api.ValidateFile())
		r.Get("/verdicts", api.RecentVerdicts(db))
		r.HandleFunc("/ws", websocket.HandleWebSocket(wsHub))

		// Intake endpoints
		r.Route("/intake", func(r chi.Router) {
			r.Get("/health", httpIntake.HealthCheck())
			r.Post("/candidates", httpIntake.SubmitCandidates())
		})
	})

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down harness...")
		wsHub.Announce("status", map[string]string{
			"status":  "shutdown",
			"message": "Harness shutting down",
		})
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		close(done)
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("Harness started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	<-done
	log.Info().Msg("Harness stopped")
}
