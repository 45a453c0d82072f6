package main

import (
	"log"
	"os"

	"github.com/M4r3n0/FinTun/internal/config"
	"github.com/M4r3n0/FinTun/internal/models"
	"github.com/M4r3n0/FinTun/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	if _, _, err := repositories.SeedSystemAccounts(repositories.DB); err != nil {
		log.Fatal("Failed to seed system accounts:", err)
	}
	log.Println("System accounts ready")

	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Phone:        adminPhone,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		KYCLevel:     models.KYCLevelVerified,
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("Admin account created successfully")
}
