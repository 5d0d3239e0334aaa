package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/shared"
)

type UserHandler struct {
	userSvc UserServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// @Summary Current user profile
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserResponse}
// @Router /api/v1/user [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Update profile
// @Description Update nickname or avatar URL; nicknames stay unique
// @Tags user
// @Accept json
// @Produce json
// @Security Bearer
// @Param updateRequest body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.UserResponse}
// @Router /api/v1/user [patch]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateUserRequest
	_ = c.BodyParser(&req)

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.userSvc.UpdateProfile(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary User stats
// @Description Streak, monthly XP, rank, league and average grade
// @Tags user
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.UserStatsResponse}
// @Router /api/v1/user/stats [get]
func (h *UserHandler) GetStats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetStats(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Monthly ranking
// @Description Users ordered by monthly XP with champions and league labels
// @Tags ranking
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.RankingResponse}
// @Router /api/v1/ranking [get]
func (h *UserHandler) GetRanking(c *fiber.Ctx) error {
	resp, err := h.userSvc.GetRanking()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Upload avatar
// @Description Store the avatar image and return its public URL
// @Tags user
// @Accept mpfd
// @Produce json
// @Security Bearer
// @Param file formData file true "Avatar image (png, jpg, jpeg, webp)"
// @Success 200 {object} shared.Response{data=dto.AvatarUploadResponse}
// @Router /api/v1/user/avatar [post]
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	file, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "Avatar file is required")
	}

	resp, err := h.userSvc.UploadAvatar(userID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
