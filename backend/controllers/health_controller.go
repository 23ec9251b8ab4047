package controllers

import (
	"context"
	"time"

	"cursifynova/backend/cache"
	"cursifynova/backend/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Cache *cache.Cache
}

func NewHealthController(db *gorm.DB, cfg *config.Config, c *cache.Cache) *HealthController {
	return &HealthController{DB: db, Cfg: cfg, Cache: c}
}

// Health reports database and cache reachability. A cache outage degrades
// the service but does not fail it.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (hc *HealthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	checks := fiber.Map{"database": "ok", "cache": "ok"}

	if sqlDB, err := hc.DB.DB(); err != nil {
		checks["database"] = hc.describe(err)
		status = fiber.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		checks["database"] = hc.describe(err)
		status = fiber.StatusServiceUnavailable
	}

	if err := hc.Cache.Store().Ping(ctx); err != nil {
		checks["cache"] = hc.describe(err)
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"data":    checks,
	})
}

func (hc *HealthController) describe(err error) string {
	if hc.Cfg.IsProduction() {
		return "unavailable"
	}
	return err.Error()
}
