package main

import (
	"context"
	"net/http"

	_ "usuarios/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"usuarios/internal/auth"
	"usuarios/internal/cache"
	"usuarios/internal/config"
	"usuarios/internal/db"
	"usuarios/internal/handler"
	"usuarios/internal/logger"
	"usuarios/internal/model"
	"usuarios/internal/repository"
	"usuarios/internal/router"
	"usuarios/internal/service"
)

// @title Usuarios API
// @version 1.0
// @description CRUD de usuarios con autenticación JWT.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("config load")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	// The unique index on email comes from the model tags; the pre-insert
	// check in the service is only the fast path.
	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)

	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService)
	seedHandler := handler.NewSeedHandler(userService)

	router.Register(e, cfg, userHandler, authHandler, seedHandler)

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Msg("starting usuarios server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server start")
	}
}
