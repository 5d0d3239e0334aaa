package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	_ "github.com/snakecoder-labs/snakecoder_api/docs"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"github.com/snakecoder-labs/snakecoder_api/services/handlers"
	"github.com/snakecoder-labs/snakecoder_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	contentSvc    *ContentService
	missionSvc    *MissionService
	reviewSvc     *ReviewService
	executorSvc   *ExecutorService
	dashboardSvc  *DashboardService
	userSvc       *UserService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.missionSvc = svc.Service(MISSION_SVC).(*MissionService)
	svc.reviewSvc = svc.Service(REVIEW_SVC).(*ReviewService)
	svc.executorSvc = svc.Service(EXECUTOR_SVC).(*ExecutorService)
	svc.dashboardSvc = svc.Service(DASHBOARD_SVC).(*DashboardService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", swagger.HandlerDefault)

	svc.setupRoutes(app)

	svc.server = app
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) setupRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	moduleHandler := handlers.NewModuleHandler(svc.contentSvc)
	missionHandler := handlers.NewMissionHandler(svc.missionSvc, svc.reviewSvc, svc.executorSvc)
	dashboardHandler := handlers.NewDashboardHandler(svc.dashboardSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	auth := v1.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Middleware("register"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Middleware("login"), authHandler.Login)

	protected := v1.Group("", svc.authSvc.RequiredAuth())

	protected.Get("/modules", moduleHandler.GetModules)
	protected.Get("/modules/:id", moduleHandler.GetModule)
	protected.Post("/modules/:id/unlock", moduleHandler.UnlockModule)
	protected.Get("/modules/:id/sprints/:sprintId", moduleHandler.GetSprint)

	protected.Get("/missions", moduleHandler.GetMissions)
	protected.Get("/missions/task/:id", missionHandler.GetTask)
	protected.Patch("/missions/task/:id", missionHandler.SaveTask)
	protected.Post("/missions/task/:id/execute", svc.rateLimitSvc.Middleware("execute"), missionHandler.ExecuteTask)
	protected.Post("/missions/task/:id/review", svc.rateLimitSvc.Middleware("review"), missionHandler.ReviewTask)
	protected.Get("/missions/quiz/:id", missionHandler.GetQuiz)
	protected.Post("/missions/quiz/:id", missionHandler.SubmitQuiz)
	protected.Get("/missions/article/:id", missionHandler.GetArticle)
	protected.Post("/missions/article/:id", missionHandler.CompleteArticle)

	protected.Get("/dashboard", dashboardHandler.GetDashboard)
	protected.Post("/dashboard/plan/claim", dashboardHandler.ClaimPlanBonus)

	protected.Get("/ranking", userHandler.GetRanking)

	protected.Get("/user", userHandler.GetProfile)
	protected.Patch("/user", userHandler.UpdateProfile)
	protected.Get("/user/stats", userHandler.GetStats)
	protected.Post("/user/avatar", userHandler.UploadAvatar)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, http.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	return shared.ResponseJSON(c, http.StatusInternalServerError, "Internal Server Error", nil)
}
