package services

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/dto"
	"github.com/snakecoder-labs/snakecoder_api/model"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphabatem/common/context"
)

type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

const bcryptCost = 12

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	nickName := shared.TrimClamp(req.NickName, 30)

	taken, err := svc.sqlSvc.NicknameTaken(nickName, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Nickname already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Internal Server Error")
	}

	user, err := svc.sqlSvc.CreateUser(&model.User{
		Email:        shared.TrimClamp(req.Email, 254),
		NickName:     nickName,
		DisplayName:  nickName,
		PasswordHash: string(hash),
	})
	if err != nil {
		if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode == http.StatusConflict {
			return nil, shared.NewConflictError(appErr.Err, "Email or nickname already registered")
		}
		return nil, err
	}

	return &dto.RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		NickName: user.NickName,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.TokenPair, error) {
	user, err := svc.sqlSvc.GetUserByLogin(shared.TrimClamp(req.Login, 254))
	if err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Internal Server Error")
	}

	// Best effort, login must not fail on a stamp update.
	now := time.Now()
	user.LastLoginAt = &now
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		log.WithField("user_id", user.ID).Warnf("Failed to record last login: %v", err)
	}

	return pair, nil
}

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}
