package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/orlogbook/orlog-api/internal/config"
	"github.com/orlogbook/orlog-api/internal/docstore"
	"github.com/orlogbook/orlog-api/internal/docstore/postgres"
	"github.com/orlogbook/orlog-api/internal/email"
	"github.com/orlogbook/orlog-api/internal/handler"
	authhandler "github.com/orlogbook/orlog-api/internal/handler/auth"
	nursehandler "github.com/orlogbook/orlog-api/internal/handler/nurse"
	operationhandler "github.com/orlogbook/orlog-api/internal/handler/operation"
	patienthandler "github.com/orlogbook/orlog-api/internal/handler/patient"
	surgeonhandler "github.com/orlogbook/orlog-api/internal/handler/surgeon"
	"github.com/orlogbook/orlog-api/internal/middleware"
	"github.com/orlogbook/orlog-api/internal/repository"
	"github.com/orlogbook/orlog-api/internal/repository/docrepo"
	redisrepo "github.com/orlogbook/orlog-api/internal/repository/redis"
	"github.com/orlogbook/orlog-api/internal/router"
	authservice "github.com/orlogbook/orlog-api/internal/service/auth"
	nurseservice "github.com/orlogbook/orlog-api/internal/service/nurse"
	operationservice "github.com/orlogbook/orlog-api/internal/service/operation"
	patientservice "github.com/orlogbook/orlog-api/internal/service/patient"
	surgeonservice "github.com/orlogbook/orlog-api/internal/service/surgeon"
	"github.com/orlogbook/orlog-api/pkg/auth"
	"github.com/orlogbook/orlog-api/pkg/logger"
	"github.com/orlogbook/orlog-api/pkg/security"
	"github.com/orlogbook/orlog-api/pkg/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Pretty: cfg.Log.Pretty,
	})

	if err := validator.RegisterCustomRules(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validation rules")
	}

	db, err := postgres.NewDB(postgres.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	store := postgres.NewStore(db)
	if err := store.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	var revoked repository.RevokedTokenRepository
	readiness := map[string]handler.ReadinessCheck{
		"database": db.Ping,
	}
	if cfg.Redis.URL != "" {
		redisClient, err := redisrepo.NewClient(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		revoked = redisrepo.NewRevokedTokenRepository(redisClient)
		readiness["redis"] = func() error {
			return redisClient.Ping(context.Background()).Err()
		}
	} else {
		log.Warn().Msg("redis not configured, token revocation disabled")
	}

	app := buildApp(cfg, store, revoked)

	r := router.NewRouter(
		app.authMW,
		handler.NewHealthHandler(readiness),
		router.Config{
			RateLimitRPS:   cfg.RateLimit.RPS,
			RateLimitBurst: cfg.RateLimit.Burst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MetricsPrefix:  "orlog",
		},
		app.handlers...,
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}

type app struct {
	authMW   *middleware.AuthMiddleware
	handlers []router.Handler
}

func buildApp(cfg *config.Config, store docstore.Store, revoked repository.RevokedTokenRepository) *app {
	users := docrepo.NewUserRepository(store)
	patients := docrepo.NewPatientRepository(store)
	surgeons := docrepo.NewSurgeonRepository(store)
	nurses := docrepo.NewNurseRepository(store)
	operations := docrepo.NewOperationRepository(store)

	tokens := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        cfg.JWT.Expiry(),
		RefreshExpiry: cfg.JWT.RefreshExpiry(),
	})
	hasher := security.NewBcryptHasher(0)

	mailer := email.NewService(email.Config{
		Enabled:  cfg.SMTP.Enabled,
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, log.With().Str("component", "email").Logger())

	authSvc := authservice.NewService(users, tokens, hasher, revoked, mailer,
		log.With().Str("component", "auth").Logger())
	patientSvc := patientservice.NewService(patients,
		log.With().Str("component", "patient").Logger())
	surgeonSvc := surgeonservice.NewService(surgeons, users, patients, operations,
		log.With().Str("component", "surgeon").Logger())
	nurseSvc := nurseservice.NewService(nurses, users,
		log.With().Str("component", "nurse").Logger())
	operationSvc := operationservice.NewService(operations, patients, surgeons,
		log.With().Str("component", "operation").Logger())

	return &app{
		authMW: middleware.NewAuthMiddleware(authSvc),
		handlers: []router.Handler{
			authhandler.NewHandler(authSvc),
			patienthandler.NewHandler(patientSvc),
			surgeonhandler.NewHandler(surgeonSvc),
			nursehandler.NewHandler(nurseSvc),
			operationhandler.NewHandler(operationSvc),
		},
	}
}
