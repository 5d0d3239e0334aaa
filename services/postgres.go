package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "snakecoder_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.User{},

		// Curriculum
		&model.Module{},
		&model.Sprint{},
		&model.Mission{},
		&model.Task{},
		&model.TaskTestCase{},
		&model.QuizQuestion{},
		&model.QuizOption{},
		&model.Article{},

		// Progress
		&model.UserModuleAccess{},
		&model.UserMissionProgress{},
		&model.TaskSubmission{},
		&model.QuizAttempt{},
		&model.TaskReview{},
		&model.AnalyticsLog{},
	}

	err = ds.db.AutoMigrate(models...)
	if err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	return nil
}

func (ds *PostgresService) Shutdown() {
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// HandleError maps database errors onto client-facing AppErrors. 5xx causes
// are logged with detail; the caller only ever sees the safe message.
func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *shared.AppError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		appErr = shared.NewNotFoundError(err, "Not Found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		appErr = shared.NewConflictError(err, "Conflict")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		appErr = shared.NewBadRequestError(err, "Bad Request")
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			appErr = shared.NewConflictError(err, "Conflict")
		} else if strings.Contains(err.Error(), "connection refused") {
			appErr = shared.NewServiceUnavailableError(err, "Service Unavailable")
		} else {
			appErr = shared.NewInternalError(err, "Internal Server Error")
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": appErr.StatusCode,
		"error":       err.Error(),
	})

	if appErr.StatusCode >= http.StatusInternalServerError {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return appErr
}

// ==================== USERS ====================

func (ds *PostgresService) CreateUser(user *model.User) (*model.User, error) {
	id, _ := uuid.NewV7()
	user.ID = id.String()
	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *PostgresService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByLogin(login string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ? OR nick_name = ?", login, login).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	if err := ds.db.Save(user).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// NicknameTaken is case-insensitive so two users cannot differ only by case.
func (ds *PostgresService) NicknameTaken(nickName, excludeUserID string) (bool, error) {
	var count int64
	q := ds.db.Model(&model.User{}).Where("LOWER(nick_name) = LOWER(?)", nickName)
	if excludeUserID != "" {
		q = q.Where("id <> ?", excludeUserID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, ds.HandleError(err)
	}
	return count > 0, nil
}

func (ds *PostgresService) ListUsersByMonthlyXP() ([]model.User, error) {
	var users []model.User
	if err := ds.db.Order("xp_month DESC, id ASC").Find(&users).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return users, nil
}

func (ds *PostgresService) CountUsersWithMoreMonthlyXP(xpMonth int) (int64, error) {
	var count int64
	if err := ds.db.Model(&model.User{}).Where("xp_month > ?", xpMonth).Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

// ==================== MODULES ====================

func (ds *PostgresService) GetModules() ([]model.Module, error) {
	var modules []model.Module
	if err := ds.db.Preload("Sprints", func(db *gorm.DB) *gorm.DB {
		return db.Order("sprints.order ASC")
	}).Preload("Sprints.Missions", func(db *gorm.DB) *gorm.DB {
		return db.Order("missions.order ASC")
	}).Order("created_at ASC").Find(&modules).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return modules, nil
}

func (ds *PostgresService) GetModule(id string) (*model.Module, error) {
	var module model.Module
	if err := ds.db.Preload("Sprints", func(db *gorm.DB) *gorm.DB {
		return db.Order("sprints.order ASC")
	}).Preload("Sprints.Missions", func(db *gorm.DB) *gorm.DB {
		return db.Order("missions.order ASC")
	}).Where("id = ?", id).First(&module).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &module, nil
}

// ==================== SPRINTS ====================

func (ds *PostgresService) GetSprint(moduleID, sprintID string) (*model.Sprint, error) {
	var sprint model.Sprint
	if err := ds.db.Preload("Missions", func(db *gorm.DB) *gorm.DB {
		return db.Order("missions.order ASC")
	}).Where("id = ? AND module_id = ?", sprintID, moduleID).First(&sprint).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &sprint, nil
}

// ==================== MISSIONS ====================

func (ds *PostgresService) GetMission(id string) (*model.Mission, error) {
	var mission model.Mission
	if err := ds.db.
		Preload("Task").
		Preload("Task.TestCases", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_test_cases.order ASC")
		}).
		Preload("Article").
		Preload("QuizQuestions", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_questions.order ASC")
		}).
		Preload("QuizQuestions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("quiz_options.order ASC")
		}).
		Where("id = ?", id).First(&mission).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &mission, nil
}

func (ds *PostgresService) GetMissions() ([]model.Mission, error) {
	var missions []model.Mission
	if err := ds.db.Order("created_at ASC").Find(&missions).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return missions, nil
}

// ==================== MODULE ACCESS ====================

func (ds *PostgresService) GetModuleAccess(userID, moduleID string) (*model.UserModuleAccess, error) {
	var access model.UserModuleAccess
	if err := ds.db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&access).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &access, nil
}

func (ds *PostgresService) ListModuleAccess(userID string) ([]model.UserModuleAccess, error) {
	var grants []model.UserModuleAccess
	if err := ds.db.Where("user_id = ?", userID).Order("started_at DESC").Find(&grants).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return grants, nil
}

// UpsertModuleAccess grants access idempotently: a repeat unlock refreshes
// has_access/started_at on the existing row instead of failing the unique index.
func (ds *PostgresService) UpsertModuleAccess(access *model.UserModuleAccess) error {
	if access.ID == "" {
		id, _ := uuid.NewV7()
		access.ID = id.String()
	}
	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"has_access", "started_at", "updated_at"}),
	}).Create(access).Error
	if err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== MISSION PROGRESS ====================

func (ds *PostgresService) GetMissionProgress(userID, missionID string) (*model.UserMissionProgress, error) {
	var progress model.UserMissionProgress
	if err := ds.db.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *PostgresService) ListMissionProgress(userID string) ([]model.UserMissionProgress, error) {
	var rows []model.UserMissionProgress
	if err := ds.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

func (ds *PostgresService) SaveMissionProgress(progress *model.UserMissionProgress) error {
	if progress.ID == "" {
		id, _ := uuid.NewV7()
		progress.ID = id.String()
	}
	if err := ds.db.Save(progress).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// GetLatestTimedCompletion returns the newest DONE row that recorded time
// spent, for the dashboard speed band. nil when the user has none.
func (ds *PostgresService) GetLatestTimedCompletion(userID string) (*model.UserMissionProgress, error) {
	var progress model.UserMissionProgress
	err := ds.db.Preload("Mission").
		Where("user_id = ? AND status = ? AND time_spent_seconds > 0", userID, shared.StatusDone).
		Order("completed_at DESC").
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

// ==================== SUBMISSIONS / ATTEMPTS ====================

func (ds *PostgresService) CreateTaskSubmission(submission *model.TaskSubmission) error {
	id, _ := uuid.NewV7()
	submission.ID = id.String()
	if err := ds.db.Create(submission).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) CreateQuizAttempt(attempt *model.QuizAttempt) error {
	id, _ := uuid.NewV7()
	attempt.ID = id.String()
	if err := ds.db.Create(attempt).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== TASK REVIEWS ====================

func (ds *PostgresService) CountTaskReviewsSince(userID string, since time.Time) (int64, error) {
	var count int64
	if err := ds.db.Model(&model.TaskReview{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

func (ds *PostgresService) CreateTaskReview(review *model.TaskReview) error {
	id, _ := uuid.NewV7()
	review.ID = id.String()
	if err := ds.db.Create(review).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ListUserTaskReviews returns every review round for a user, oldest first.
func (ds *PostgresService) ListUserTaskReviews(userID string) ([]model.TaskReview, error) {
	var reviews []model.TaskReview
	if err := ds.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return reviews, nil
}

// ==================== ANALYTICS ====================

func (ds *PostgresService) CreateAnalyticsLog(entry *model.AnalyticsLog) error {
	id, _ := uuid.NewV7()
	entry.ID = id.String()
	if err := ds.db.Create(entry).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) SumXPAwardedBetween(userID string, from, to time.Time) (int, error) {
	var total *int
	if err := ds.db.Model(&model.AnalyticsLog{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from, to).
		Select("SUM(xp_awarded)").Scan(&total).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
