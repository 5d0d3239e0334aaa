package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/shared"
)

type ModuleHandler struct {
	contentSvc ContentServiceInterface
}

func NewModuleHandler(contentSvc ContentServiceInterface) *ModuleHandler {
	return &ModuleHandler{contentSvc: contentSvc}
}

// @Summary List modules
// @Description Module catalog with per-user progress and lock state
// @Tags modules
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.ModuleSummary}
// @Router /api/v1/modules [get]
func (h *ModuleHandler) GetModules(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.contentSvc.GetModules(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Module detail
// @Description Module header plus its sprint list with lock chain state
// @Tags modules
// @Produce json
// @Security Bearer
// @Param id path string true "Module ID"
// @Success 200 {object} shared.Response{data=dto.ModuleDetailResponse}
// @Router /api/v1/modules/{id} [get]
func (h *ModuleHandler) GetModule(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.contentSvc.GetModuleDetail(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Unlock a module
// @Description Grant the caller access to a module; repeat unlocks are no-ops
// @Tags modules
// @Produce json
// @Security Bearer
// @Param id path string true "Module ID"
// @Success 200 {object} shared.Response{data=dto.UnlockResponse}
// @Router /api/v1/modules/{id}/unlock [post]
func (h *ModuleHandler) UnlockModule(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.contentSvc.UnlockModule(userID, c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", dto.UnlockResponse{OK: true})
}

// @Summary Sprint detail
// @Description Sprint header and its mission list
// @Tags modules
// @Produce json
// @Security Bearer
// @Param id path string true "Module ID"
// @Param sprintId path string true "Sprint ID"
// @Success 200 {object} shared.Response{data=dto.SprintDetailResponse}
// @Router /api/v1/modules/{id}/sprints/{sprintId} [get]
func (h *ModuleHandler) GetSprint(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.contentSvc.GetSprintDetail(userID, c.Params("id"), c.Params("sprintId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary List missions
// @Description All missions with per-user status
// @Tags missions
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.MissionSummary}
// @Router /api/v1/missions [get]
func (h *ModuleHandler) GetMissions(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.contentSvc.GetMissions(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
