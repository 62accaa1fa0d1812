package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lixi/internal/config"
	"lixi/internal/db"
	"lixi/internal/model"
	"lixi/internal/repository"
)

const bcryptCost = 10

// Seeds the initial administrator account from ADMIN_USERNAME/ADMIN_PASSWORD.
// Safe to run repeatedly: an existing admin with the same username is kept.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Admin{}, &model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	adminRepo := repository.NewAdminRepository(gormDB)

	existing, err := adminRepo.FindByUsername(ctx, cfg.AdminUsername)
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("Failed to check admin existence: %v", err)
	}
	if existing != nil {
		log.Printf("Admin %q already exists, nothing to do", cfg.AdminUsername)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &model.Admin{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hashedPassword),
	}
	if err := adminRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Admin account %q created successfully", cfg.AdminUsername)
	log.Println("Please change this password after first login")
}
