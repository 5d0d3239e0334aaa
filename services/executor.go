package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"
)

// ExecutorService proxies code runs to the sandbox executor. The executor
// owns isolation and resource limits; this side owns progress and XP.
type ExecutorService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService

	client  *http.Client
	baseURL string

	healthMu      sync.Mutex
	healthOK      bool
	healthChecked time.Time
}

const EXECUTOR_SVC = "executor_svc"

const healthCacheTTL = 10 * time.Second

func (svc ExecutorService) Id() string {
	return EXECUTOR_SVC
}

func (svc *ExecutorService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("EXECUTOR_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8090"
	}
	svc.client = &http.Client{Timeout: 30 * time.Second}
	return svc.DefaultService.Configure(ctx)
}

func (svc *ExecutorService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// ==================== XP MULTIPLIERS ====================

func timeMultiplier(timeSpentSeconds, etaMinutes int) float64 {
	if etaMinutes <= 0 || timeSpentSeconds <= 0 {
		return 1.0
	}
	eta := etaMinutes * 60
	switch {
	case timeSpentSeconds <= eta/3:
		return 1.2
	case timeSpentSeconds <= eta:
		return 1.1
	default:
		return 1.0
	}
}

func attemptsMultiplier(attempts int) float64 {
	switch {
	case attempts <= 2:
		return 1.0
	case attempts <= 4:
		return 0.9
	default:
		return 0.75
	}
}

func computeTaskXP(baseXP, timeSpentSeconds, etaMinutes, attempts int) int {
	return int(math.Round(float64(baseXP) * timeMultiplier(timeSpentSeconds, etaMinutes) * attemptsMultiplier(attempts)))
}

// ==================== HEALTH ====================

// Healthy probes the executor, caching the verdict briefly so a burst of
// runs does not hammer the health endpoint.
func (svc *ExecutorService) Healthy() bool {
	svc.healthMu.Lock()
	defer svc.healthMu.Unlock()

	if time.Since(svc.healthChecked) < healthCacheTTL {
		return svc.healthOK
	}

	resp, err := svc.client.Get(svc.baseURL + "/health")
	if err == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	svc.healthOK = err == nil && resp.StatusCode == http.StatusOK
	svc.healthChecked = time.Now()
	return svc.healthOK
}

// ==================== EXECUTION ====================

type executorRunRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

type executorRunResponse struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

type executorJudgeRequest struct {
	Language string             `json:"language"`
	Code     string             `json:"code"`
	Tests    []executorTestCase `json:"tests"`
}

type executorTestCase struct {
	ID             string `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

type executorJudgeResponse struct {
	Results []struct {
		ID     string `json:"id"`
		Passed bool   `json:"passed"`
		Output string `json:"output"`
	} `json:"results"`
	PassedCount int `json:"passed_count"`
	TotalCount  int `json:"total_count"`
}

func (svc *ExecutorService) Execute(userID, missionID string, req dto.ExecuteRequest) (*dto.ExecuteResponse, error) {
	if !svc.Healthy() {
		return nil, shared.NewServiceUnavailableError(nil, "Code executor is unavailable")
	}

	mission, err := requireMissionAccess(svc.sqlSvc, userID, missionID)
	if err != nil {
		return nil, err
	}
	if mission.Task == nil {
		return nil, shared.NewNotFoundError(nil, "Not Found")
	}

	switch req.Mode {
	case dto.ExecuteModeRunCode:
		return svc.runCode(userID, mission, req)
	case dto.ExecuteModeFullTest:
		return svc.fullTest(userID, mission, req)
	case dto.ExecuteModeCompleteTask:
		return svc.completeTask(userID, mission, req)
	default:
		return nil, shared.NewBadRequestError(nil, "Unknown execution mode")
	}
}

func (svc *ExecutorService) runCode(userID string, mission *model.Mission, req dto.ExecuteRequest) (*dto.ExecuteResponse, error) {
	var out executorRunResponse
	err := svc.post(userID, "/run", executorRunRequest{
		Language: mission.Task.Language,
		Code:     req.Code,
		Stdin:    req.Stdin,
	}, &out)
	if err != nil {
		return nil, shared.NewBadGatewayError(err, "Executor request failed")
	}

	return &dto.ExecuteResponse{
		Mode:   req.Mode,
		Stdout: out.Stdout,
		Stderr: out.Stderr,
	}, nil
}

func (svc *ExecutorService) judge(userID string, mission *model.Mission, code string) (*executorJudgeResponse, error) {
	tests := make([]executorTestCase, 0, len(mission.Task.TestCases))
	for _, tc := range mission.Task.TestCases {
		tests = append(tests, executorTestCase{
			ID:             tc.ID,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		})
	}

	var out executorJudgeResponse
	err := svc.post(userID, "/judge", executorJudgeRequest{
		Language: mission.Task.Language,
		Code:     code,
		Tests:    tests,
	}, &out)
	if err != nil {
		return nil, shared.NewBadGatewayError(err, "Executor request failed")
	}
	return &out, nil
}

func (svc *ExecutorService) fullTest(userID string, mission *model.Mission, req dto.ExecuteRequest) (*dto.ExecuteResponse, error) {
	verdict, err := svc.judge(userID, mission, req.Code)
	if err != nil {
		return nil, err
	}

	progress, err := svc.progressOrNew(userID, mission.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if progress.Status != shared.StatusDone {
		progress.TestAttemptsCount++
		applySave(progress, req.Code, req.TimeSpentSeconds, now)
	} else {
		applySave(progress, req.Code, 0, now)
	}
	if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
		return nil, err
	}

	// Full-test feedback only shows the public-sized slice of results.
	visible := len(verdict.Results)
	if visible > publicTestsCap {
		visible = publicTestsCap
	}
	results := make([]dto.TestResult, 0, visible)
	for _, r := range verdict.Results[:visible] {
		results = append(results, dto.TestResult{ID: r.ID, Passed: r.Passed, Output: r.Output})
	}

	return &dto.ExecuteResponse{
		Mode:        req.Mode,
		Results:     results,
		PassedCount: verdict.PassedCount,
		TotalCount:  verdict.TotalCount,
		AllPassed:   verdict.TotalCount > 0 && verdict.PassedCount == verdict.TotalCount,
		Status:      progress.Status,
	}, nil
}

func (svc *ExecutorService) completeTask(userID string, mission *model.Mission, req dto.ExecuteRequest) (*dto.ExecuteResponse, error) {
	verdict, err := svc.judge(userID, mission, req.Code)
	if err != nil {
		return nil, err
	}

	allPassed := verdict.TotalCount > 0 && verdict.PassedCount == verdict.TotalCount

	progress, err := svc.progressOrNew(userID, mission.ID)
	if err != nil {
		return nil, err
	}

	status := shared.StatusFailed
	if allPassed {
		status = shared.StatusPassed
	}
	if err := svc.sqlSvc.CreateTaskSubmission(&model.TaskSubmission{
		UserID:           userID,
		TaskID:           mission.ID,
		Code:             req.Code,
		Status:           status,
		PassedCount:      verdict.PassedCount,
		TotalCount:       verdict.TotalCount,
		TimeSpentSeconds: req.TimeSpentSeconds,
	}); err != nil {
		return nil, err
	}

	now := time.Now()
	xpAwarded := 0

	if !allPassed {
		if progress.Status != shared.StatusDone {
			progress.TestAttemptsCount++
			applySave(progress, req.Code, req.TimeSpentSeconds, now)
		} else {
			applySave(progress, req.Code, 0, now)
		}
		if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
			return nil, err
		}
	} else if progress.Status != shared.StatusDone {
		applySave(progress, req.Code, req.TimeSpentSeconds, now)
		progress.Status = shared.StatusDone
		progress.CompletedAt = &now

		// The time bonus grades this run, not the lifetime total on the row.
		xpAwarded = computeTaskXP(mission.XP, req.TimeSpentSeconds, mission.EtaMinutes, progress.TestAttemptsCount)
		progress.XPEarned = xpAwarded

		if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
			return nil, err
		}
		if err := awardXP(svc.sqlSvc, userID, xpAwarded, "task"); err != nil {
			return nil, err
		}
		logMissionCompleted(svc.sqlSvc, userID, mission, xpAwarded, progress.TimeSpentSeconds, progress.TestAttemptsCount)
	} else {
		// Repeat completion of a DONE task: keep the draft, no new XP.
		applySave(progress, req.Code, 0, now)
		if err := svc.sqlSvc.SaveMissionProgress(progress); err != nil {
			return nil, err
		}
	}

	return &dto.ExecuteResponse{
		Mode:        req.Mode,
		PassedCount: verdict.PassedCount,
		TotalCount:  verdict.TotalCount,
		AllPassed:   allPassed,
		XPAwarded:   xpAwarded,
		Status:      progress.Status,
	}, nil
}

func (svc *ExecutorService) progressOrNew(userID, missionID string) (*model.UserMissionProgress, error) {
	progress, err := svc.sqlSvc.GetMissionProgress(userID, missionID)
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == 404 {
			return &model.UserMissionProgress{
				UserID:    userID,
				MissionID: missionID,
				Status:    shared.StatusTodo,
			}, nil
		}
		return nil, err
	}
	return progress, nil
}

func (svc *ExecutorService) post(userID, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest(http.MethodPost, svc.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := svc.jwtSvc.ExecutorToken(userID)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := svc.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.WithField("path", path).Warnf("Executor returned %d", resp.StatusCode)
		return fmt.Errorf("executor returned %d: %s", resp.StatusCode, string(data))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
