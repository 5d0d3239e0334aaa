package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
)

type UserService struct {
	appContext.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService
	minioSvc *MinIOService
}

const USER_SVC = "user_svc"

const (
	rankingCacheKey = "ranking:monthly"
	rankingCacheTTL = 30 * time.Second
	championsCount  = 3
)

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// ==================== PURE HELPERS ====================

func leagueForRank(rank int) string {
	switch {
	case rank <= 3:
		return shared.LeagueChampions
	case rank <= 10:
		return shared.LeagueGold
	case rank <= 50:
		return shared.LeagueSilver
	default:
		return shared.LeagueBronze
	}
}

// rollStreak advances the lazy streak counter. Exactly one missed midnight
// extends the streak, anything longer restarts it at one.
func rollStreak(current, best int, updatedAt *time.Time, now time.Time) (int, int, bool) {
	if updatedAt == nil {
		current = 1
	} else {
		days := int(localMidnight(now).Sub(localMidnight(*updatedAt)).Hours() / 24)
		switch {
		case days == 0:
			if best < current {
				best = current
			}
			return current, best, false
		case days == 1:
			current++
		default:
			current = 1
		}
	}

	if best < current {
		best = current
	}
	return current, best, true
}

// buildRanking splits positionally: the first three rows are champions no
// matter how ties fall. The own-rank formula in GetStats counts strictly
// greater monthly XP instead, so the two views can disagree on ties.
func buildRanking(users []model.User) *dto.RankingResponse {
	ranked := make([]dto.RankedUser, 0, len(users))
	for i, user := range users {
		rank := i + 1
		ranked = append(ranked, dto.RankedUser{
			ID:          user.ID,
			NickName:    user.NickName,
			DisplayName: user.DisplayName,
			AvatarURL:   user.AvatarURL,
			XPMonth:     user.XPMonth,
			Rank:        rank,
			League:      leagueForRank(rank),
			Grade:       gradeLabel(user.GradeAvg),
		})
	}

	split := championsCount
	if len(ranked) < split {
		split = len(ranked)
	}

	return &dto.RankingResponse{
		Champions: ranked[:split],
		Users:     ranked[split:],
	}
}

// ==================== PROFILE ====================

func (svc *UserService) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	grants, err := svc.sqlSvc.ListModuleAccess(userID)
	if err != nil {
		return nil, err
	}

	unlocked := make([]dto.UnlockedModule, 0, len(grants))
	for _, grant := range grants {
		if !grant.HasAccess {
			continue
		}
		module, err := svc.sqlSvc.GetModule(grant.ModuleID)
		if err != nil {
			continue
		}
		unlocked = append(unlocked, dto.UnlockedModule{
			ID:        module.ID,
			Code:      module.Code,
			Title:     module.Title,
			StartedAt: grant.StartedAt,
		})
	}

	return &dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		NickName:        user.NickName,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		DisplayName:     user.DisplayName,
		AvatarURL:       user.AvatarURL,
		XPTotal:         user.XPTotal,
		XPMonth:         user.XPMonth,
		XPToday:         user.XPToday,
		StreakCurrent:   user.StreakCurrent,
		StreakBest:      user.StreakBest,
		GradeAvg:        user.GradeAvg,
		UnlockedModules: unlocked,
		CreatedAt:       user.CreatedAt,
	}, nil
}

func (svc *UserService) UpdateProfile(userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.NickName != nil {
		nickName := shared.TrimClamp(*req.NickName, 30)
		taken, err := svc.sqlSvc.NicknameTaken(nickName, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewConflictError(nil, "Nickname already taken")
		}
		user.NickName = nickName
	}
	if req.FirstName != nil {
		user.FirstName = shared.TrimClamp(*req.FirstName, 50)
	}
	if req.LastName != nil {
		user.LastName = shared.TrimClamp(*req.LastName, 50)
	}
	if req.DisplayName != nil {
		user.DisplayName = shared.TrimClamp(*req.DisplayName, 50)
	}

	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	return svc.GetProfile(userID)
}

// ==================== STATS ====================

func (svc *UserService) GetStats(userID string) (*dto.UserStatsResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	current, best, changed := rollStreak(user.StreakCurrent, user.StreakBest, user.StreakUpdatedAt, now)
	if changed || best != user.StreakBest {
		user.StreakCurrent = current
		user.StreakBest = best
		if changed {
			user.StreakUpdatedAt = &now
		}
		if err := svc.sqlSvc.UpdateUser(user); err != nil {
			log.WithField("user_id", userID).Warnf("Failed to persist streak: %v", err)
		}
	}

	// Ties share a rank: 1 plus everyone strictly ahead.
	greater, err := svc.sqlSvc.CountUsersWithMoreMonthlyXP(user.XPMonth)
	if err != nil {
		return nil, err
	}
	rank := int(greater) + 1

	return &dto.UserStatsResponse{
		StreakDays: current,
		XPGained:   user.XPMonth,
		Rank:       rank,
		LeagueName: leagueForRank(rank),
		GradeAvg:   gradeLabel(user.GradeAvg),
	}, nil
}

// ==================== RANKING ====================

func (svc *UserService) GetRanking() (*dto.RankingResponse, error) {
	ctx := context.Background()

	var cached dto.RankingResponse
	if found, err := svc.redisSvc.GetJSON(ctx, rankingCacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	users, err := svc.sqlSvc.ListUsersByMonthlyXP()
	if err != nil {
		return nil, err
	}

	ranking := buildRanking(users)

	if err := svc.redisSvc.Set(ctx, rankingCacheKey, ranking, rankingCacheTTL); err != nil {
		log.Warnf("Failed to cache ranking: %v", err)
	}

	return ranking, nil
}

// ==================== AVATAR ====================

func (svc *UserService) UploadAvatar(userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return nil, shared.NewBadRequestError(nil, "Unsupported image format")
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Could not read upload")
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := "avatars/" + userID + ext
	if _, err := svc.minioSvc.UploadFile(objectName, src, file.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Upload failed")
	}

	url := svc.minioSvc.PublicURL(objectName)

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = url
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	return &dto.AvatarUploadResponse{URL: url}, nil
}
