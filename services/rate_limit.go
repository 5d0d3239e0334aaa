package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/snakecoder-labs/snakecoder_api/shared"
	log "github.com/sirupsen/logrus"

	appContext "github.com/alphabatem/common/context"
)

// RateLimitService throttles sensitive endpoints with a redis fixed window
// keyed by client IP and endpoint type.
type RateLimitService struct {
	appContext.DefaultService

	redisSvc *RedisService

	configs map[string]rateLimitConfig
}

type rateLimitConfig struct {
	MaxRequests int
	WindowSize  time.Duration
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = map[string]rateLimitConfig{
		"login":    {MaxRequests: 10, WindowSize: 15 * time.Minute},
		"register": {MaxRequests: 5, WindowSize: 15 * time.Minute},
		"execute":  {MaxRequests: 60, WindowSize: time.Minute},
		"review":   {MaxRequests: 10, WindowSize: time.Minute},
		"default":  {MaxRequests: 300, WindowSize: time.Minute},
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// Allow consumes one request from the window. Fails open when redis is
// unreachable so throttling never takes the API down with it.
func (svc *RateLimitService) Allow(endpointType, clientIP string) bool {
	cfg, ok := svc.configs[endpointType]
	if !ok {
		cfg = svc.configs["default"]
	}

	ctx := context.Background()
	window := time.Now().Unix() / int64(cfg.WindowSize.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, clientIP, window)

	count, err := svc.redisSvc.Increment(ctx, key)
	if err != nil {
		log.Warnf("Rate limit check failed: %v", err)
		return true
	}
	if count == 1 {
		if err := svc.redisSvc.Expire(ctx, key, cfg.WindowSize); err != nil {
			log.Warnf("Rate limit expire failed: %v", err)
		}
	}

	return count <= int64(cfg.MaxRequests)
}

func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !svc.Allow(endpointType, c.IP()) {
			return shared.ResponseJSON(c, http.StatusTooManyRequests, "Too many requests", nil)
		}
		return c.Next()
	}
}
