package handlers

import (
	"loanlink-partners/internal/core/services"
	"loanlink-partners/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles back-office dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard gets program statistics
// @Summary Get dashboard
// @Description Get partner program statistics (Admin only)
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.dashboardService.GetDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to get dashboard data")
	}

	return response.Success(c, "Dashboard data retrieved successfully", data)
}
