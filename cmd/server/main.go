package main

import (
	"log"
	"net/http"

	_ "lixi/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lixi/internal/auth"
	"lixi/internal/cache"
	"lixi/internal/config"
	"lixi/internal/db"
	"lixi/internal/handler"
	"lixi/internal/model"
	"lixi/internal/repository"
	"lixi/internal/router"
	"lixi/internal/service"
)

// @title Lucky Money API
// @version 1.0
// @description Lunar New Year lucky money service: admin-managed users, one-time random draws, and payout tracking, with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Admin{},
		&model.User{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	adminRepo := repository.NewAdminRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(adminRepo, userRepo, jwtService, tokenStore)
	adminService := service.NewAdminService(userRepo, cacheClient)
	luckyMoneyService := service.NewLuckyMoneyService(userRepo, cacheClient)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	luckyMoneyHandler := handler.NewLuckyMoneyHandler(luckyMoneyService)

	// Register routes
	router.Register(
		e,
		cfg,
		jwtService,
		cacheClient,
		authHandler,
		adminHandler,
		luckyMoneyHandler,
	)

	if cfg.SwaggerHost != "" {
		log.Printf("Swagger documentation available at: %s/swagger/index.html", cfg.SwaggerHost)
	} else {
		log.Printf("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.ServerPort)
	}

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
