package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	discordclient "prremind/clients/discord"
	googleclient "prremind/clients/google"
	slackclient "prremind/clients/slack"
	webhookclient "prremind/clients/webhook"
	"prremind/config"
	"prremind/db"
	"prremind/handlers"
	"prremind/metrics"
	"prremind/middleware"
	"prremind/scheduler"
	"prremind/services/prnotifications"
	"prremind/services/reminders"
	"prremind/services/slackconnections"
	"prremind/services/users"
	"prremind/sessions"
	"prremind/usecases/auth"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	slackConnectionsRepo := db.NewPostgresSlackConnectionsRepository(dbConn, cfg.DatabaseSchema)
	prNotificationsRepo := db.NewPostgresPRNotificationsRepository(dbConn, cfg.DatabaseSchema)

	// Initialize external clients
	googleOAuthClient := googleclient.NewGoogleOAuthClient(
		cfg.GoogleConfig.ClientID,
		cfg.GoogleConfig.ClientSecret,
		cfg.GoogleConfig.RedirectURI,
	)
	slackAPIClient := slackclient.NewSlackClient()

	// Initialize services
	usersService := users.NewUsersService(usersRepo)
	slackConnectionsService := slackconnections.NewSlackConnectionsService(
		slackConnectionsRepo,
		slackAPIClient,
		cfg.SlackConfig,
	)
	prNotificationsService := prnotifications.NewPRNotificationsService(prNotificationsRepo, usersService)
	remindersService := reminders.NewRemindersService(prNotificationsRepo, slackConnectionsRepo, slackAPIClient)

	if cfg.DiscordConfig.IsConfigured() {
		discordClient, err := discordclient.NewDiscordClient(cfg.DiscordConfig.BotToken)
		if err != nil {
			return err
		}
		remindersService.WithOpsChannel(discordClient, cfg.DiscordConfig.OpsChannelID)
		log.Printf("✅ Discord ops channel reporting enabled")
	}
	if cfg.AlertWebhookURL != "" {
		remindersService.WithAlertWebhook(webhookclient.NewWebhookClient(), cfg.AlertWebhookURL)
		log.Printf("✅ Alert webhook enabled")
	}

	// Session issuer and auth flow
	issuer, err := sessions.NewIssuer(cfg.JWTConfig.SecretKey, cfg.JWTConfig.Algorithm, cfg.JWTConfig.TokenDuration)
	if err != nil {
		return err
	}
	authUseCase := auth.NewAuthUseCase(
		googleOAuthClient,
		cfg.GoogleConfig,
		usersService,
		slackConnectionsService,
		issuer,
		cfg.FrontendBaseURL,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	metricsCollector := metrics.NewCollector(registry)

	// HTTP handlers
	authMiddleware := middleware.NewSessionAuthMiddleware(usersService, issuer)
	authHandler := handlers.NewAuthHandler(authUseCase, metricsCollector)
	usersHandler := handlers.NewUsersHandler()
	slackAuthHandler := handlers.NewSlackAuthHandler(slackConnectionsService, cfg.SlackConfig, cfg.FrontendBaseURL)
	postmarkHandler := handlers.NewPostmarkWebhookHandler(prNotificationsService, cfg.WebhookAuthConfig, metricsCollector)
	prsHandler := handlers.NewPRNotificationsHandler(prNotificationsService)
	remindersHandler := handlers.NewRemindersHandler(remindersService, metricsCollector)

	router := mux.NewRouter()
	authHandler.SetupEndpoints(router, authMiddleware)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	usersHandler.SetupEndpoints(apiRouter, authMiddleware)
	slackAuthHandler.SetupEndpoints(apiRouter, authMiddleware)
	postmarkHandler.SetupEndpoints(apiRouter)
	prsHandler.SetupEndpoints(apiRouter, authMiddleware)
	remindersHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Prometheus scrape endpoint
	router.Handle("/metrics", metrics.Handler(registry)).Methods("GET")

	// Background reminder scheduler
	reminderScheduler := scheduler.NewScheduler(cfg.SweepInterval, remindersService, prNotificationsService, metricsCollector)
	reminderScheduler.Start()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.AlertConfig{
		WebhookURL:  cfg.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "prremind",
	}, webhookclient.NewWebhookClient())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Handler(alertMiddleware.HTTPMiddleware(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server, reminderScheduler)
}

func handleGracefulShutdown(server *http.Server, reminderScheduler *scheduler.Scheduler) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := reminderScheduler.Stop(ctx); err != nil {
		log.Printf("⚠️ Scheduler shutdown error: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
