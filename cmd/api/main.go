package main

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

	_ "primaries-backend/docs" // This is for Swagger
	"primaries-backend/internal/auth"
	"primaries-backend/internal/config"
	"primaries-backend/internal/database"
	"primaries-backend/internal/email"
	"primaries-backend/internal/handlers"
	"primaries-backend/internal/logger"
	"primaries-backend/internal/middleware"
	"primaries-backend/internal/repository"
	"primaries-backend/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Primaries API
// @version 1.0
// @description Backend API for the online primary election platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@primaries.example

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	voterRepo := repository.NewVoterRepository(db.DB)
	candidateRepo := repository.NewCandidateRepository(db.DB)
	tokenRepo := repository.NewTokenRepository(db.DB)
	stageRepo := repository.NewStageRepository(db.DB)
	voteRepo := repository.NewVoteRepository(db.DB)
	markRepo := repository.NewMarkRepository(db.DB)
	evalRepo := repository.NewEvaluationRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	imageRepo := repository.NewPaymentImageRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	emailService := email.NewService(&cfg.Email)
	authSvc := service.NewAuthService(userRepo, voterRepo, candidateRepo, tokenRepo, authService, emailService)
	profileSvc := service.NewProfileService(userRepo, voterRepo, candidateRepo, authSvc)
	stageSvc := service.NewStageService(db.DB, stageRepo, voterRepo)
	votingSvc := service.NewVotingService(db.DB, stageRepo, voterRepo, candidateRepo, voteRepo)
	evaluationSvc := service.NewEvaluationService(stageRepo, voterRepo, candidateRepo, markRepo, evalRepo)
	paymentSvc := service.NewPaymentService(db.DB, &cfg.Payment, stageRepo, voterRepo, userRepo, paymentRepo, imageRepo, emailService)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, cfg)
	profileHandler := handlers.NewProfileHandler(profileSvc, authSvc)
	candidateHandler := handlers.NewCandidateHandler(candidateRepo, postRepo, profileSvc)
	votingHandler := handlers.NewVotingHandler(votingSvc, profileSvc)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationSvc, profileSvc)
	paymentHandler := handlers.NewPaymentHandler(paymentSvc, profileSvc)
	stageHandler := handlers.NewStageHandler(stageSvc)
	newsHandler := handlers.NewNewsHandler(newsRepo)
	contactHandler := handlers.NewContactHandler(emailService)

	// Setup router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("GET /api/v1/auth/verify-email", authHandler.VerifyEmail)

	mux.HandleFunc("GET /api/v1/stage", stageHandler.Get)

	mux.HandleFunc("GET /api/v1/news", newsHandler.List)
	mux.HandleFunc("GET /api/v1/news/{id}", newsHandler.Get)

	mux.HandleFunc("GET /api/v1/candidates", candidateHandler.List)
	mux.HandleFunc("GET /api/v1/candidates/{id}", candidateHandler.Get)
	mux.HandleFunc("GET /api/v1/candidates/{id}/posts", candidateHandler.Posts)
	mux.HandleFunc("GET /api/v1/parties", candidateHandler.Parties)

	mux.HandleFunc("POST /api/v1/contact", contactHandler.Submit)

	// Payment gateway webhook; authenticated by checksum, not by JWT
	mux.HandleFunc("POST /api/v1/pay/gateway", paymentHandler.GatewayCallback)

	// Protected routes
	mux.Handle("GET /api/v1/auth/me", authMw.Authenticate(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/v1/auth/password", authMw.Authenticate(http.HandlerFunc(authHandler.ChangePassword)))

	mux.Handle("POST /api/v1/profiles/voter", authMw.Authenticate(http.HandlerFunc(profileHandler.CreateVoterProfile)))
	mux.Handle("GET /api/v1/profiles/voter", authMw.Authenticate(http.HandlerFunc(profileHandler.GetVoterProfile)))
	mux.Handle("PUT /api/v1/profiles/voter", authMw.Authenticate(http.HandlerFunc(profileHandler.UpdateVoterProfile)))
	mux.Handle("POST /api/v1/profiles/candidate", authMw.Authenticate(http.HandlerFunc(profileHandler.CreateCandidateProfile)))
	mux.Handle("GET /api/v1/profiles/candidate", authMw.Authenticate(http.HandlerFunc(profileHandler.GetCandidateProfile)))
	mux.Handle("PUT /api/v1/profiles/candidate", authMw.Authenticate(http.HandlerFunc(profileHandler.UpdateCandidateProfile)))
	mux.Handle("POST /api/v1/profiles/resend-verification", authMw.Authenticate(http.HandlerFunc(profileHandler.ResendVerification)))

	mux.Handle("POST /api/v1/candidates/posts", authMw.Authenticate(http.HandlerFunc(candidateHandler.CreatePost)))
	mux.Handle("DELETE /api/v1/candidates/posts/{id}", authMw.Authenticate(http.HandlerFunc(candidateHandler.DeletePost)))

	mux.Handle("POST /api/v1/vote", authMw.Authenticate(authMw.RequireVoter(http.HandlerFunc(votingHandler.Submit))))
	mux.HandleFunc("GET /api/v1/vote-result", votingHandler.Results)

	mux.HandleFunc("GET /api/v1/marks", evaluationHandler.Marks)
	mux.Handle("POST /api/v1/evaluate", authMw.Authenticate(authMw.RequireVoter(http.HandlerFunc(evaluationHandler.Submit))))
	mux.Handle("GET /api/v1/evaluate", authMw.Authenticate(http.HandlerFunc(evaluationHandler.OwnMarks)))
	mux.HandleFunc("GET /api/v1/evaluate-result", evaluationHandler.Results)

	mux.Handle("POST /api/v1/pay/voting", authMw.Authenticate(http.HandlerFunc(paymentHandler.RequestVotingPayment)))
	mux.Handle("POST /api/v1/pay/evaluation", authMw.Authenticate(http.HandlerFunc(paymentHandler.RequestEvaluationPayment)))
	mux.Handle("POST /api/v1/pay/image", authMw.Authenticate(http.HandlerFunc(paymentHandler.SubmitImageProof)))

	// Admin routes
	mux.Handle("PUT /api/v1/admin/stage",
		authMw.Authenticate(
			authMw.RequireStaff(
				http.HandlerFunc(stageHandler.Set),
			),
		),
	)
	mux.Handle("POST /api/v1/admin/candidates/{id}/approve",
		authMw.Authenticate(
			authMw.RequireStaff(
				http.HandlerFunc(profileHandler.ApproveCandidate),
			),
		),
	)
	mux.Handle("POST /api/v1/admin/voters/{id}/confirm-payment",
		authMw.Authenticate(
			authMw.RequireStaff(
				http.HandlerFunc(paymentHandler.ConfirmManual),
			),
		),
	)
	mux.Handle("POST /api/v1/admin/news",
		authMw.Authenticate(
			authMw.RequireStaff(
				http.HandlerFunc(newsHandler.Create),
			),
		),
	)
	mux.Handle("DELETE /api/v1/admin/news/{id}",
		authMw.Authenticate(
			authMw.RequireStaff(
				http.HandlerFunc(newsHandler.Delete),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
