package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/shared"
)

type MissionHandler struct {
	missionSvc  MissionServiceInterface
	reviewSvc   ReviewServiceInterface
	executorSvc ExecutorServiceInterface
}

func NewMissionHandler(missionSvc MissionServiceInterface, reviewSvc ReviewServiceInterface, executorSvc ExecutorServiceInterface) *MissionHandler {
	return &MissionHandler{
		missionSvc:  missionSvc,
		reviewSvc:   reviewSvc,
		executorSvc: executorSvc,
	}
}

// @Summary Task payload
// @Description Task mission with starter code, saved draft, capped public tests and review quota
// @Tags missions
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Success 200 {object} shared.Response{data=dto.TaskPayloadResponse}
// @Router /api/v1/missions/task/{id} [get]
func (h *MissionHandler) GetTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	remaining, err := h.reviewSvc.ReviewsRemaining(userID)
	if err != nil {
		return err
	}

	resp, err := h.missionSvc.GetTask(userID, c.Params("id"), remaining)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Save task draft
// @Description Persist the working draft; completed missions keep their DONE status
// @Tags missions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Param saveRequest body dto.SaveTaskRequest true "Draft code"
// @Success 200 {object} shared.Response{data=dto.SaveTaskResponse}
// @Router /api/v1/missions/task/{id} [patch]
func (h *MissionHandler) SaveTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SaveTaskRequest
	_ = c.BodyParser(&req)

	resp, err := h.missionSvc.SaveTask(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Execute task code
// @Description Run or judge code in the sandbox executor; completeTask awards XP
// @Tags missions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Param executeRequest body dto.ExecuteRequest true "Execution request"
// @Success 200 {object} shared.Response{data=dto.ExecuteResponse}
// @Router /api/v1/missions/task/{id}/execute [post]
func (h *MissionHandler) ExecuteTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ExecuteRequest
	_ = c.BodyParser(&req)

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.executorSvc.Execute(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Request AI review
// @Description Grade the submission with the review model; limited per day
// @Tags missions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Param reviewRequest body dto.ReviewRequest true "Code to review"
// @Success 200 {object} shared.Response{data=dto.ReviewResponse}
// @Router /api/v1/missions/task/{id}/review [post]
func (h *MissionHandler) ReviewTask(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ReviewRequest
	_ = c.BodyParser(&req)

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.reviewSvc.ReviewTask(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Quiz payload
// @Description Quiz questions without answers; opening marks the mission in progress
// @Tags missions
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Success 200 {object} shared.Response{data=dto.QuizPayloadResponse}
// @Router /api/v1/missions/quiz/{id} [get]
func (h *MissionHandler) GetQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.missionSvc.GetQuiz(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Submit quiz answers
// @Description Grade the quiz; a first pass completes the mission and awards XP once
// @Tags missions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Param submitRequest body dto.QuizSubmitRequest true "Answers by question"
// @Success 200 {object} shared.Response{data=dto.QuizSubmitResponse}
// @Router /api/v1/missions/quiz/{id} [post]
func (h *MissionHandler) SubmitQuiz(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.QuizSubmitRequest
	_ = c.BodyParser(&req)

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.missionSvc.SubmitQuiz(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Article payload
// @Tags missions
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Success 200 {object} shared.Response{data=dto.ArticleResponse}
// @Router /api/v1/missions/article/{id} [get]
func (h *MissionHandler) GetArticle(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.missionSvc.GetArticle(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Complete an article
// @Description Mark the article read; awards its XP on the first completion
// @Tags missions
// @Produce json
// @Security Bearer
// @Param id path string true "Mission ID"
// @Success 200 {object} shared.Response{data=dto.ArticleCompleteResponse}
// @Router /api/v1/missions/article/{id} [post]
func (h *MissionHandler) CompleteArticle(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.missionSvc.CompleteArticle(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}
