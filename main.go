package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lizet96/hms-backend/config"
	"github.com/lizet96/hms-backend/database"
	"github.com/lizet96/hms-backend/handlers"
	"github.com/lizet96/hms-backend/logging"
	"github.com/lizet96/hms-backend/middleware"
	"github.com/lizet96/hms-backend/routes"
	"github.com/lizet96/hms-backend/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configFile := os.Getenv("CONFIG_FILE")
	cfg, fileLoaded, err := config.Load(configFile)
	if err != nil {
		logging.Fatal().Err(err).Msg("configuración inválida")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if !fileLoaded {
		logging.Warn().Msg("Advertencia: no se pudo cargar el archivo de configuración, se usan las variables de entorno")
	}
	if cfg.Auth.JWTSecret == "" {
		logging.Warn().Msg("JWT_SECRET_KEY no está configurado: el login y las rutas protegidas van a fallar")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Base de datos y stores; las consultas responden 503 hasta que el supervisor conecte
	db := database.New(cfg.DatabaseURL)
	defer db.Close()

	users := database.NewUserStore(db)
	messages := database.NewMessageStore(db)
	appointments := database.NewAppointmentStore(db)

	var avatars handlers.AvatarUploader
	avatarStore, err := storage.NewAvatarStore(cfg.Storage)
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		logging.Warn().Msg("MinIO no configurado: el registro de médicos no podrá subir avatares")
	case err != nil:
		logging.Error().Err(err).Msg("no se pudo crear el cliente de MinIO")
	default:
		if err := avatarStore.EnsureBucket(ctx); err != nil {
			logging.Error().Err(err).Msg("no se pudo verificar el bucket de avatares")
		}
		avatars = avatarStore
	}

	auth := handlers.NewAuth(middleware.NewTokens(cfg.Auth), users)

	supervisor := database.NewSupervisor(db.Connect, database.NewState(),
		database.WithRetryDelay(cfg.RetryDelay),
		database.WithLogger(logging.With("database")),
	)

	app := routes.NewApp(cfg, routes.Collaborators{
		Message:     handlers.NewMessageHandler(messages, auth).Register,
		User:        handlers.NewUserHandler(users, avatars, auth).Register,
		Appointment: handlers.NewAppointmentHandler(appointments, users, auth).Register,
	}, supervisor.State())

	// El servidor no espera a la base de datos
	supervisor.Start(ctx)

	go func() {
		logging.Info().
			Str("port", cfg.Port).
			Str("environment", cfg.Environment).
			Msgf("Servidor Hospital Management System iniciado en puerto %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.Error().Err(err).Msg("el servidor se detuvo")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("apagando el servidor")

	supervisor.Stop()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logging.Error().Err(err).Msg("error al apagar el servidor")
	}
}
