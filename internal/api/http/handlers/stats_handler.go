package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/RandyMyers/mbzserver12-sub001/internal/api/dto"
	"github.com/RandyMyers/mbzserver12-sub001/internal/auth"
	"github.com/RandyMyers/mbzserver12-sub001/internal/service"
	"github.com/RandyMyers/mbzserver12-sub001/pkg/util"
)

// StatsHandler serves derived ticket statistics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// GetStats GET /stats.
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("scope required")
	}
	stats, err := h.service.Summary(c.UserContext(), principal.OrganizationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		Total:                 stats.Total,
		Open:                  stats.Open,
		Resolved:              stats.Resolved,
		AvgFirstResponseHours: stats.AvgFirstResponseHours,
	}})
}
