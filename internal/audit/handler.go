package audit

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"igp-sales-backend/internal/models"
)

// GET /api/audit-logs?entity_type=lot&limit=100
func ListHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 200)
		if limit < 1 || limit > 1000 {
			limit = 200
		}

		q := db.Model(&models.AuditLog{})
		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}

		var logs []models.AuditLog
		if err := q.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not list audit logs")
		}
		return c.JSON(logs)
	}
}
