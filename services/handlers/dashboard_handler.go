package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/shared"
)

type DashboardHandler struct {
	dashboardSvc DashboardServiceInterface
}

func NewDashboardHandler(dashboardSvc DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// @Summary Dashboard
// @Description Spotlight sprint, daily plan, next mission and last results
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DashboardResponse}
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.dashboardSvc.GetDashboard(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Claim the daily plan bonus
// @Description Award the plan bonus once per day when the plan is complete
// @Tags dashboard
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.PlanClaimResponse}
// @Router /api/v1/dashboard/plan/claim [post]
func (h *DashboardHandler) ClaimPlanBonus(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.dashboardSvc.ClaimPlanBonus(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
