package database

import (
	"context"
	"log"

	"github.com/qobilovfirdavs02/ChatApp-server/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	if _, err := Redis.Ping(context.Background()).Result(); err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Conversation caching will be degraded.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}
