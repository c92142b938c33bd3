package main

import (
	"context"
	"errors"

	"usuarios/internal/cache"
	"usuarios/internal/config"
	"usuarios/internal/db"
	apperrors "usuarios/internal/errors"
	"usuarios/internal/logger"
	"usuarios/internal/model"
	"usuarios/internal/repository"
	"usuarios/internal/service"
)

// seedUsers are the fixtures inserted by the CLI. Existing emails are
// skipped, so re-running the seeder is harmless.
var seedUsers = []service.CreateUserInput{
	{Name: "Administrador", Email: "admin@example.com", Password: "admin123", Role: model.RoleAdmin},
	{Name: "Ana García", Email: "ana@example.com", Password: "secret1"},
	{Name: "Luis Pérez", Email: "luis@example.com", Password: "secret2"},
	{Name: "Cuenta Baja", Email: "baja@example.com", Password: "secret3", Active: float64(0)},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("config load")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, (*cache.Client)(nil))

	created, skipped := 0, 0
	for _, in := range seedUsers {
		user, err := userService.CreateUser(ctx, in)
		if err != nil {
			var conflict *apperrors.ConflictError
			if errors.As(err, &conflict) {
				log.Info().Str("email", in.Email).Msg("usuario already exists, skipping")
				skipped++
				continue
			}
			log.Fatal().Err(err).Str("email", in.Email).Msg("seed usuario")
		}
		log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("usuario created")
		created++
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed completed")
}
