package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/go-redis/redis/v8"
)

// KYCService resolves a user's KYC level from the external user
// service, caching results in Redis. Any failure falls back to the
// default level so limit checks always have a tier to work with.
type KYCService struct {
	cfg        *config.KYCConfig
	httpClient *http.Client
	redis      *redis.Client
}

func NewKYCService(cfg *config.KYCConfig, redisClient *redis.Client) *KYCService {
	return &KYCService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		redis:      redisClient,
	}
}

// KYCLevel returns the user's KYC level (1/2/3), defaulting on any
// lookup failure.
func (k *KYCService) KYCLevel(ctx context.Context, userID int64) int {
	cacheKey := fmt.Sprintf("kyc:level:%d", userID)

	if k.redis != nil {
		if cached, err := k.redis.Get(ctx, cacheKey).Result(); err == nil {
			if level, err := strconv.Atoi(cached); err == nil {
				return level
			}
		}
	}

	level, err := k.fetchLevel(ctx, userID)
	if err != nil {
		log.Printf("[KYC] Lookup failed for user %d, using default level %d: %v",
			userID, k.cfg.DefaultLevel, err)
		return k.cfg.DefaultLevel
	}

	if k.redis != nil {
		if err := k.redis.Set(ctx, cacheKey, strconv.Itoa(level), k.cfg.CacheTTL).Err(); err != nil {
			log.Printf("[KYC] Failed to cache level for user %d: %v", userID, err)
		}
	}
	return level
}

func (k *KYCService) fetchLevel(ctx context.Context, userID int64) (int, error) {
	url := fmt.Sprintf("%s/api/users/%d/kyc-level", k.cfg.UserServiceURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := k.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("user service returned %d", resp.StatusCode)
	}

	var payload struct {
		KYCLevel int `json:"kycLevel"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, err
	}
	if payload.KYCLevel < 1 || payload.KYCLevel > 3 {
		return 0, fmt.Errorf("user service returned invalid level %d", payload.KYCLevel)
	}
	return payload.KYCLevel, nil
}
