package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contacts_service/internal/auth"
	"contacts_service/internal/avatar"
	"contacts_service/internal/config"
	contactsvc "contacts_service/internal/contacts"
	avatarhandler "contacts_service/internal/http_server/handlers/avatar"
	"contacts_service/internal/http_server/handlers/confirm"
	contactshandler "contacts_service/internal/http_server/handlers/contacts"
	"contacts_service/internal/http_server/handlers/login"
	"contacts_service/internal/http_server/handlers/refresh"
	requestEmail "contacts_service/internal/http_server/handlers/request_email"
	"contacts_service/internal/http_server/handlers/signup"
	jwtlib "contacts_service/internal/lib/jwt"
	sl "contacts_service/internal/lib/logger"
	"contacts_service/internal/middleware/authn"
	rateLimit "contacts_service/internal/middleware/ratelimit"
	"contacts_service/internal/rabbitmq"
	"contacts_service/internal/storage/postgres"
	"contacts_service/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustLoad("./config/config.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting contacts service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	if err := postgres.RunMigrations(ctx, cfg); err != nil {
		log.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	storage, err := postgres.New(ctx, cfg)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer storage.Close()

	userCache, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.UserCacheTTL)
	if err != nil {
		log.Error("failed to connect redis", sl.Err(err))
		os.Exit(1)
	}
	defer userCache.Close()

	msgBroker, err := rabbitmq.New(cfg.RabbitMQ.URL, cfg.RabbitMQ.QueueName)
	if err != nil {
		log.Error("failed to connect rabbitmq", sl.Err(err))
		os.Exit(1)
	}
	defer msgBroker.Close()

	uploader, err := avatar.New(ctx, cfg.S3)
	if err != nil {
		log.Error("failed to init avatar storage", sl.Err(err))
		os.Exit(1)
	}

	tokens := jwtlib.NewManager(cfg.Tokens)
	authService := auth.New(log, storage, storage, userCache, tokens)
	contactsService := contactsvc.New(log, storage)

	router := setupRouter(log, authService, contactsService, msgBroker, tokens, uploader, cfg.HTTPServer.BaseURL)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server is running", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", sl.Err(err))
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down HTTP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", sl.Err(err))
	} else {
		log.Info("Server stopped gracefully")
	}

	log.Info("Main service stopped")
}

func setupRouter(
	log *slog.Logger,
	authService *auth.Auth,
	contactsService *contactsvc.Contacts,
	msgBroker *rabbitmq.RabbitMQClient,
	tokens *jwtlib.Manager,
	uploader *avatar.Uploader,
	baseURL string,
) *chi.Mux {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/auth", func(r chi.Router) {
		r.With(rateLimit.Signup()).Post("/signup",
			signup.New(log, validate, authService, msgBroker, tokens, baseURL),
		)
		r.With(rateLimit.Login()).Post("/login",
			login.New(log, authService),
		)
		r.With(rateLimit.Refresh()).Get("/refresh_token",
			refresh.New(log, authService),
		)
		r.With(rateLimit.Confirm()).Get("/confirmed_email/{token}",
			confirm.New(log, authService),
		)
		r.With(rateLimit.RequestEmail()).Post("/request_email",
			requestEmail.New(log, validate, authService, msgBroker, tokens, baseURL),
		)
	})

	r.Route("/contacts", func(r chi.Router) {
		r.Use(authn.New(authService))

		r.Get("/", contactshandler.NewList(log, contactsService))
		r.Get("/upcoming_birthdays", contactshandler.NewUpcomingBirthdays(log, contactsService))
		r.Get("/search/", contactshandler.NewSearch(log, contactsService))
		r.With(rateLimit.CreateContact()).Post("/", contactshandler.NewCreate(log, validate, contactsService))
		r.Get("/{id}", contactshandler.NewGet(log, contactsService))
		r.Put("/{id}", contactshandler.NewUpdate(log, validate, contactsService))
		r.Delete("/{id}", contactshandler.NewDelete(log, contactsService))
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(authn.New(authService))

		r.Patch("/avatar", avatarhandler.New(log, authService, uploader))
	})

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
