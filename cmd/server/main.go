package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	_ "labreserve/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"labreserve/internal/auth"
	"labreserve/internal/cache"
	"labreserve/internal/config"
	"labreserve/internal/db"
	"labreserve/internal/handler"
	"labreserve/internal/model"
	"labreserve/internal/repository"
	"labreserve/internal/router"
	"labreserve/internal/service"
)

// @title Lab Reservation API
// @version 1.0
// @description Lab reservation booking backend with soft-deleted reservations, audit trail, and JWT authentication.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.AuditLog{},
			&model.Reservation{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Reservation{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	reservationRepo := repository.NewReservationRepository(gormDB)
	auditRepo := repository.NewAuditRepository(gormDB)
	txManager := repository.NewTxManager(gormDB)

	if err := bootstrapAdmin(context.Background(), userRepo); err != nil {
		log.Fatalf("bootstrap admin: %v", err)
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo)
	reservationService := service.NewReservationService(reservationRepo, txManager, cacheClient)
	auditService := service.NewAuditService(auditRepo)
	assistantService := service.NewAssistantService(reservationRepo, openai.NewClient(cfg.OpenAIAPIKey), cfg.OpenAIModel)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	auditHandler := handler.NewAuditHandler(auditService)
	assistantHandler := handler.NewAssistantHandler(assistantService)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		userHandler,
		reservationHandler,
		auditHandler,
		assistantHandler,
	)

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}

// bootstrapAdmin creates the initial admin account when it does not exist yet.
func bootstrapAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	if _, err := userRepo.FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Println("ADMIN_PASSWORD not set, using default dev password for admin user")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminEmail := "admin@example.com"
	admin := &model.User{
		Username:     "admin",
		FullName:     "Admin",
		Email:        &adminEmail,
		PasswordHash: string(hashed),
		Role:         "admin",
		IsActive:     true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Println("Created initial admin user")
	return nil
}
