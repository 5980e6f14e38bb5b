package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/ryzerecruiting/api/internal/config"
	"github.com/ryzerecruiting/api/internal/database"
	"github.com/ryzerecruiting/api/internal/handlers"
	"github.com/ryzerecruiting/api/internal/logger"
	"github.com/ryzerecruiting/api/internal/middleware"
	"github.com/ryzerecruiting/api/internal/services/booking"
	"github.com/ryzerecruiting/api/internal/services/brief"
	"github.com/ryzerecruiting/api/internal/services/calendar"
	"github.com/ryzerecruiting/api/internal/services/credentials"
	"github.com/ryzerecruiting/api/internal/services/notify"
	"github.com/ryzerecruiting/api/internal/services/oauth"
	"github.com/ryzerecruiting/api/internal/services/zoom"
	"github.com/ryzerecruiting/api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "ryze-recruiting-api"

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	if err := db.Migrate(context.Background()); err != nil {
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	zapLogger.Info("migrations_applied")

	// Connect to Redis for rate limiting and OAuth signup tokens
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_parse_redis_url", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	profileRepo := database.NewEmployerProfileRepository(db)
	waitlistRepo := database.NewWaitlistRepository(db)
	contactRepo := database.NewContactRepository(db)
	corsConfigRepo := database.NewCorsConfigRepository(db)
	ratelimitConfigRepo := database.NewRatelimitConfigRepository(db)

	// Initialize services
	tokenService, err := credentials.NewTokenService(cfg.SecretKey, serviceName, cfg.TokenTTL())
	if err != nil {
		zapLogger.Fatal("failed_to_create_token_service", zap.Error(err))
	}

	providers := make(map[string]oauth.AuthProvider)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers[oauth.ProviderGoogle] = oauth.NewGoogleProvider(
			cfg.GoogleClientID, cfg.GoogleClientSecret,
			cfg.BackendURL+"/api/auth/oauth/google/callback",
		)
	}
	if cfg.LinkedInClientID != "" && cfg.LinkedInClientSecret != "" {
		providers[oauth.ProviderLinkedIn] = oauth.NewLinkedInProvider(
			cfg.LinkedInClientID, cfg.LinkedInClientSecret,
			cfg.BackendURL+"/api/auth/oauth/linkedin/callback",
		)
	}
	signupStore := oauth.NewSignupStore(redisClient)
	oauthService := oauth.NewService(userRepo, tokenService, signupStore, providers, zapLogger)

	var conferencer booking.Conferencer
	zoomClient := zoom.NewClient(cfg.ZoomAccountID, cfg.ZoomClientID, cfg.ZoomClientSecret)
	if zoomClient.Configured() {
		conferencer = zoomClient
	} else {
		zapLogger.Warn("zoom_not_configured_confirmations_will_fail")
	}

	var calendarService booking.Calendar
	calClient, err := calendar.NewClient(context.Background(),
		cfg.CalendarClientID, cfg.CalendarClientSecret, cfg.CalendarRefreshToken,
		cfg.CalendarID, cfg.AdminEmail,
	)
	if err != nil {
		zapLogger.Warn("calendar_not_configured", zap.Error(err))
	} else {
		calendarService = calClient
	}

	briefService := brief.NewService(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger)

	emailSender := notify.NewEmailSender(cfg.ResendAPIKey, cfg.FromEmail)
	smsSender := notify.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	notifyService := notify.NewService(emailSender, smsSender, cfg.AdminEmail, zapLogger)

	bookingService := booking.NewService(bookingRepo, conferencer, calendarService, briefService, notifyService, zapLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, tokenService, zapLogger)
	oauthHandler := handlers.NewOAuthHandler(oauthService, cfg.FrontendURL, zapLogger)
	bookingHandler := handlers.NewBookingHandler(bookingService, zapLogger)
	profileHandler := handlers.NewEmployerProfileHandler(profileRepo, zapLogger)
	waitlistHandler := handlers.NewWaitlistHandler(waitlistRepo, zapLogger)
	contactHandler := handlers.NewContactHandler(contactRepo, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, redisClient)

	// Setup router
	r := mux.NewRouter()

	zapLogger.Info("setting_up_middleware")

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	// Security headers on all responses
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	// CORS (load from DB, hot-reload; fallback to FRONTEND_URL)
	corsReloader := middleware.NewCORSReloader(corsConfigRepo, cfg.FrontendURL, zapLogger, 1*time.Minute)
	r.Use(corsReloader.Middleware())
	// Rate limit middleware (applied selectively to specific routes, not globally)
	rateLimitReloader := middleware.NewRateLimitReloader(redisClient, ratelimitConfigRepo, "5-S", zapLogger, 1*time.Minute)
	if rateLimitReloader == nil {
		zapLogger.Fatal("failed_to_create_rate_limit_reloader")
	}
	rateLimitMW := rateLimitReloader.Middleware()
	// Request size limits
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	// Content-Type validation for POST/PATCH/PUT requests
	r.Use(middleware.ContentType)
	// Request timeout
	r.Use(middleware.Timeout(30 * time.Second))
	// Panic recovery
	r.Use(middleware.ErrorHandler(zapLogger))
	// Request logging
	r.Use(middleware.Logging(zapLogger))

	authMW := middleware.Auth(tokenService, userRepo, zapLogger)
	adminMW := middleware.RequireAdmin(cfg.AdminEmail)

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// OpenAPI spec (public)
	openAPIPath := filepath.Join("api", "openapi", "openapi.yaml")
	openAPIHandler := handlers.NewOpenAPIHandler(openAPIPath)
	openAPIHandler.RegisterRoutes(r)

	// Public availability lookup, registered before the authenticated booking
	// subrouter so it wins the prefix match
	r.Handle("/api/bookings/availability/{date}",
		http.HandlerFunc(bookingHandler.Availability)).Methods("GET")

	// Auth routes
	authRouter := r.PathPrefix("/api/auth").Subrouter()

	// Public credential and OAuth routes with rate limiting
	publicAuthRouter := authRouter.NewRoute().Subrouter()
	publicAuthRouter.Use(rateLimitMW)
	publicAuthRouter.HandleFunc("/register", authHandler.Register).Methods("POST")
	publicAuthRouter.HandleFunc("/login", authHandler.Login).Methods("POST")
	publicAuthRouter.HandleFunc("/oauth/complete-signup", oauthHandler.CompleteSignup).Methods("POST")
	publicAuthRouter.HandleFunc("/oauth/{provider}", oauthHandler.Start).Methods("GET")
	publicAuthRouter.HandleFunc("/oauth/{provider}/callback", oauthHandler.Callback).Methods("GET")

	// Protected auth routes
	protectedAuthRouter := authRouter.NewRoute().Subrouter()
	protectedAuthRouter.Use(authMW)
	protectedAuthRouter.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Employer booking routes (authenticated)
	employerRouter := r.NewRoute().Subrouter()
	employerRouter.Use(authMW)
	employerRouter.Use(rateLimitMW)
	employerRouter.HandleFunc("/api/bookings", bookingHandler.Create).Methods("POST")
	employerRouter.HandleFunc("/api/bookings/my", bookingHandler.ListMy).Methods("GET")

	// Public waitlist and contact form (rate limited)
	publicRouter := r.NewRoute().Subrouter()
	publicRouter.Use(rateLimitMW)
	publicRouter.HandleFunc("/api/waitlist", waitlistHandler.Join).Methods("POST")
	publicRouter.HandleFunc("/api/contact", contactHandler.Submit).Methods("POST")

	// Admin routes
	adminRouter := r.NewRoute().Subrouter()
	adminRouter.Use(authMW)
	adminRouter.Use(adminMW)
	adminRouter.HandleFunc("/api/bookings", bookingHandler.List).Methods("GET")
	adminRouter.HandleFunc("/api/bookings/{id}", bookingHandler.Get).Methods("GET")
	adminRouter.HandleFunc("/api/bookings/{id}/status", bookingHandler.SetStatus).Methods("PATCH")
	adminRouter.HandleFunc("/api/bookings/{id}", bookingHandler.Delete).Methods("DELETE")
	adminRouter.HandleFunc("/api/employer-profiles", profileHandler.List).Methods("GET")
	adminRouter.HandleFunc("/api/employer-profiles/{id}", profileHandler.Get).Methods("GET")
	adminRouter.HandleFunc("/api/employer-profiles/{id}", profileHandler.Update).Methods("PATCH")
	adminRouter.HandleFunc("/api/waitlist", waitlistHandler.List).Methods("GET")
	adminRouter.HandleFunc("/api/contact", contactHandler.List).Methods("GET")

	// Catch-all OPTIONS handler for preflight requests
	// The CORS middleware sets headers before this is called
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// CORS and rate limit hot-reload loops
	reloadCtx, reloadCancel := context.WithCancel(context.Background())
	defer reloadCancel()
	go corsReloader.Start(reloadCtx)
	go rateLimitReloader.Start(reloadCtx)

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	reloadCancel()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Only expose minimal version info
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
