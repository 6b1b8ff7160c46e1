package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyTrackerAPI/config"
	"studyTrackerAPI/handlers"
	"studyTrackerAPI/internal/auth"
	"studyTrackerAPI/internal/database"
	"studyTrackerAPI/middleware"
	"studyTrackerAPI/services"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE:  runServe,
	}
}

type app struct {
	cfg         *config.Config
	tokens      *auth.TokenIssuer
	limiter     *middleware.RateLimiter
	hub         *services.PresenceHub
	db          handlers.Pinger
	users       *services.UserService
	tasks       *services.TaskService
	plans       *services.PlanService
	achieve     *services.AchievementService
	statistics  *services.StatisticsService
	leaderboard *services.LeaderboardService
	avatars     *services.AvatarService
}

func runServe(cmd *cobra.Command, args []string) error {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		config.Logger.Info("Closing database connection pool...")
		db.Close()
	}()

	if err := db.InitializeSchema(ctx); err != nil {
		return err
	}
	config.Logger.Info("Successfully connected to database")

	var provider services.EmailProvider = services.LogEmailProvider{}
	if cfg.Mail.Enabled() {
		provider = services.NewSMTPProvider(cfg.Mail)
	} else {
		config.Logger.Warn("MAIL_USERNAME not set, verification emails will only be logged")
	}
	mailer := services.NewEmailDispatcher(provider, cfg.BaseURL)
	defer mailer.Stop()

	hub := services.NewPresenceHub()
	go hub.Run()
	defer hub.Stop()

	avatars, err := services.NewAvatarService(cfg.AvatarBaseURL, cfg.AvatarCacheSize)
	if err != nil {
		return err
	}

	middleware.InitPrometheus(prometheus.DefaultRegisterer)
	services.RegisterMetrics(prometheus.DefaultRegisterer)

	tokens := auth.NewTokenIssuer(cfg.SecretKey, cfg.TokenTTL)
	pool := db.Pool()
	a := &app{
		cfg:         cfg,
		tokens:      tokens,
		limiter:     middleware.NewRateLimiter(5, 30),
		hub:         hub,
		db:          pool,
		users:       services.NewUserService(pool, tokens, mailer),
		tasks:       services.NewTaskService(pool, cfg.Location, hub),
		plans:       services.NewPlanService(pool),
		achieve:     services.NewAchievementService(pool, cfg.Location),
		statistics:  services.NewStatisticsService(pool, cfg.Location),
		leaderboard: services.NewLeaderboardService(pool, cfg.Location),
		avatars:     avatars,
	}

	runCtx, stopCleanup := context.WithCancel(context.Background())
	defer stopCleanup()
	go a.limiter.CleanupVisitors(runCtx)

	server := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("Starting server on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		config.Logger.Infof("Got signal: %v", sig)
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		config.Logger.WithError(err).Error("Server shutdown error")
	}

	config.Logger.Info("Server shutdown complete")
	return nil
}

func (a *app) routes() http.Handler {
	userHandler := handlers.NewUserHandler(a.users)
	taskHandler := handlers.NewTaskHandler(a.tasks)
	planHandler := handlers.NewPlanHandler(a.plans)
	achievementHandler := handlers.NewAchievementHandler(a.achieve)
	statisticsHandler := handlers.NewStatisticsHandler(a.statistics)
	leaderboardHandler := handlers.NewLeaderboardHandler(a.leaderboard)
	avatarHandler := handlers.NewAvatarHandler(a.avatars)
	presenceHandler := handlers.NewPresenceHandler(a.hub)
	healthHandler := handlers.NewHealthHandler(a.db)

	authenticate := middleware.JWTAuthMiddleware(a.tokens)

	r := mux.NewRouter()

	// Long lived, so it skips rate limiting and request metrics.
	r.Handle("/api/online-users/ws", authenticate(http.HandlerFunc(presenceHandler.OnlineUsers)))

	standardRouter := r.PathPrefix("/").Subrouter()
	standardRouter.Use(a.limiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(a.cfg.MetricsUser, a.cfg.MetricsPass)(promhttp.Handler()))

	api := standardRouter.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthHandler.Health).Methods("GET")
	api.HandleFunc("/auth/register", userHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", userHandler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", userHandler.Logout).Methods("POST")
	api.HandleFunc("/auth/verify-email", userHandler.VerifyEmail).Methods("GET")
	api.HandleFunc("/achievements/catalog", achievementHandler.GetCatalog).Methods("GET")
	api.HandleFunc("/avatar/generate", avatarHandler.GenerateAvatar).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(authenticate)

	protected.HandleFunc("/users/me", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/users/me", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/users/me", userHandler.DeleteAccount).Methods("DELETE")

	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods("POST")
	protected.HandleFunc("/tasks", taskHandler.ListTasks).Methods("GET")
	protected.HandleFunc("/tasks/today", taskHandler.ListTodayTasks).Methods("GET")
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods("GET")
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods("PUT")
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods("DELETE")

	protected.HandleFunc("/plans", planHandler.CreatePlan).Methods("POST")
	protected.HandleFunc("/plans", planHandler.ListPlans).Methods("GET")
	protected.HandleFunc("/plans/{id}", planHandler.GetPlan).Methods("GET")
	protected.HandleFunc("/plans/{id}", planHandler.UpdatePlan).Methods("PUT")
	protected.HandleFunc("/plans/{id}", planHandler.DeletePlan).Methods("DELETE")

	protected.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")

	protected.HandleFunc("/statistics", statisticsHandler.GetOverview).Methods("GET")
	protected.HandleFunc("/statistics/daily", statisticsHandler.GetDailyStats).Methods("GET")
	protected.HandleFunc("/statistics/weekly", statisticsHandler.GetWeeklyStats).Methods("GET")
	protected.HandleFunc("/statistics/monthly", statisticsHandler.GetMonthlyStats).Methods("GET")
	protected.HandleFunc("/statistics/total", statisticsHandler.GetTotalStats).Methods("GET")
	protected.HandleFunc("/statistics/time-distribution", statisticsHandler.GetTimeDistribution).Methods("GET")
	protected.HandleFunc("/statistics/heatmap", statisticsHandler.GetHeatmap).Methods("GET")

	protected.HandleFunc("/leaderboard/weekly", leaderboardHandler.GetWeeklyLeaderboard).Methods("GET")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(a.cfg.FrontendURLs),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	return corsHandler(r)
}
