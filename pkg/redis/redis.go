package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

const sessionTenantPrefix = "widget:session:"

type IRedis interface {
	SetSessionTenant(ctx context.Context, sessionID string, tenantID string, expiration time.Duration) error
	GetSessionTenant(ctx context.Context, sessionID string) (string, bool, error)
	DeleteSessionTenant(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func NewWithClient(client *redis.Client) IRedis {
	return &redisClient{client: client}
}

func sessionKey(sessionID string) string {
	return sessionTenantPrefix + sessionID
}

func (r *redisClient) SetSessionTenant(ctx context.Context, sessionID string, tenantID string, expiration time.Duration) error {
	err := r.client.Set(ctx, sessionKey(sessionID), tenantID, expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error caching tenant for session %s: %v", sessionID, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Cached tenant for session %s with expiration %v", sessionID, expiration))
	return nil
}

// GetSessionTenant reports false with a nil error on a cache miss.
func (r *redisClient) GetSessionTenant(ctx context.Context, sessionID string) (string, bool, error) {
	val, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("No cached tenant for session %s", sessionID))
		return "", false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error reading tenant for session %s: %v", sessionID, err))
		return "", false, err
	}
	return val, true, nil
}

func (r *redisClient) DeleteSessionTenant(ctx context.Context, sessionID string) error {
	result, err := r.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error deleting tenant for session %s: %v", sessionID, err))
		return err
	}

	if result == 0 {
		logrus.Debug(fmt.Sprintf("Session %s not cached", sessionID))
	}
	return nil
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
