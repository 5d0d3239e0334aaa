package handlers

import (
	"mime/multipart"

	"github.com/snakecoder-labs/snakecoder_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.TokenPair, error)
}

type ContentServiceInterface interface {
	GetModules(userID string) ([]dto.ModuleSummary, error)
	GetModuleDetail(userID, moduleID string) (*dto.ModuleDetailResponse, error)
	UnlockModule(userID, moduleID string) error
	GetSprintDetail(userID, moduleID, sprintID string) (*dto.SprintDetailResponse, error)
	GetMissions(userID string) ([]dto.MissionSummary, error)
}

type MissionServiceInterface interface {
	GetTask(userID, missionID string, reviewsRemaining int) (*dto.TaskPayloadResponse, error)
	SaveTask(userID, missionID string, req dto.SaveTaskRequest) (*dto.SaveTaskResponse, error)
	GetQuiz(userID, missionID string) (*dto.QuizPayloadResponse, error)
	SubmitQuiz(userID, missionID string, req dto.QuizSubmitRequest) (*dto.QuizSubmitResponse, error)
	GetArticle(userID, missionID string) (*dto.ArticleResponse, error)
	CompleteArticle(userID, missionID string) (*dto.ArticleCompleteResponse, error)
}

type ReviewServiceInterface interface {
	ReviewsRemaining(userID string) (int, error)
	ReviewTask(userID, missionID string, req dto.ReviewRequest) (*dto.ReviewResponse, error)
}

type ExecutorServiceInterface interface {
	Execute(userID, missionID string, req dto.ExecuteRequest) (*dto.ExecuteResponse, error)
}

type DashboardServiceInterface interface {
	GetDashboard(userID string) (*dto.DashboardResponse, error)
	ClaimPlanBonus(userID string) (*dto.PlanClaimResponse, error)
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.UserResponse, error)
	UpdateProfile(userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	GetStats(userID string) (*dto.UserStatsResponse, error)
	GetRanking() (*dto.RankingResponse, error)
	UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error)
}
