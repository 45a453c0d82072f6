package handlers

import (
	"github.com/M4r3n0/FinTun/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

func HealthCheck(c *fiber.Ctx) error {
	dbStatus := "connected"
	if repositories.DB == nil {
		dbStatus = "unavailable"
	} else if sqlDB, err := repositories.DB.DB(); err != nil || sqlDB.Ping() != nil {
		dbStatus = "unavailable"
	}

	redisStatus := "connected"
	if repositories.CacheService == nil {
		redisStatus = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"services": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
	})
}
