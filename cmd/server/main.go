package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fittrack/workout-api/internal/api"
	"fittrack/workout-api/internal/config"
	"fittrack/workout-api/internal/logger"
	"fittrack/workout-api/internal/repository/mongo"
	"fittrack/workout-api/internal/repository/sqlite"
	"fittrack/workout-api/internal/service"
	"fittrack/workout-api/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log := logger.New("workout-api")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("could not load config")
	}
	log.Info().Msg("configuration loaded")

	// Identity store (relational). Registration and login depend on it,
	// so a failure here is fatal.
	identityDB, err := sqlite.Open(cfg.Identity.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Identity.Path).Msg("could not open identity store")
	}
	defer identityDB.Close()
	if err := sqlite.Migrate(identityDB); err != nil {
		log.Fatal().Err(err).Msg("identity store migration failed")
	}
	log.Info().Str("path", cfg.Identity.Path).Msg("identity store ready")

	// Profile/document store. Connection failure is fatal at startup;
	// later outages degrade profile reads instead of failing auth.
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Str("database", cfg.Database.Name).Msg("document store connected")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureProfileIndexes(ctx, appDB.Collection("profiles"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("sessions"))
		mongo.EnsureLogIndexes(ctx, appDB.Collection("exercise_logs"))
		log.Info().Msg("index creation completed")
	}()

	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize S3 storage")
	}

	identityRepo := sqlite.NewIdentityRepository(identityDB)
	profileRepo := mongo.NewMongoProfileRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	logRepo := mongo.NewMongoLogRepository(appDB)

	profileService := service.NewProfileService(profileRepo, log)
	authService := service.NewAuthService(identityRepo, profileService, cfg.JWT.Secret, cfg.JWT.Expiration)
	exerciseService := service.NewExerciseService(exerciseRepo, fileStorage)
	workoutService := service.NewWorkoutService(workoutRepo)
	sessionService := service.NewSessionService(sessionRepo, workoutRepo, logRepo)
	logService := service.NewLogService(logRepo, sessionRepo)

	router := gin.Default()
	api.SetupRoutes(router, cfg.JWT.Secret,
		authService, profileService, exerciseService,
		workoutService, sessionService, logService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen and serve failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
