package main

import (
	"github.com/snakecoder-labs/snakecoder_api/services"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading .env file")
	}

	ctx, err := context.NewCtx(
		&services.JWTService{},
		&services.PostgresService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.RateLimitService{},

		&services.AuthService{},
		&services.ContentService{},
		&services.MissionService{},
		&services.ReviewService{},
		&services.ExecutorService{},
		&services.DashboardService{},
		&services.UserService{},

		&services.MonitoringService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
