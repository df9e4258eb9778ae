package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildops/raid-roster-discord/internal/repositories/players"
	"github.com/guildops/raid-roster-discord/internal/repositories/raids"
	"github.com/guildops/raid-roster-discord/internal/repositories/rosters"
	"github.com/guildops/raid-roster-discord/internal/repositories/swaps"
	swapService "github.com/guildops/raid-roster-discord/internal/services/swap"
)

// One-shot expiry sweep for deployments that run the bot without the
// in-process scheduler, or to force a sweep during incident cleanup.
func main() {
	ctx := context.Background()

	// Set up Redis
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection first
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}
	defer func() {
		clientErr := client.Close()
		if clientErr != nil {
			log.Printf("Failed to close Redis connection: %v", clientErr)
		}
	}()

	expiryHours := 48
	if value := os.Getenv("SWAP_EXPIRY_HOURS"); value != "" {
		parsed, parseErr := strconv.Atoi(value)
		if parseErr != nil || parsed <= 0 {
			log.Fatalf("Invalid SWAP_EXPIRY_HOURS: %q", value)
		}
		expiryHours = parsed
	}

	svc := swapService.NewService(&swapService.ServiceConfig{
		RaidRepository:   raids.NewRedisRepository(&raids.RedisRepoConfig{Client: client}),
		PlayerRepository: players.NewRedisRepository(&players.RedisRepoConfig{Client: client}),
		RosterRepository: rosters.NewRedisRepository(&rosters.RedisRepoConfig{Client: client}),
		SwapRepository:   swaps.NewRedisRepository(&swaps.RedisRepoConfig{Client: client}),
	})

	expired, err := svc.ExpireOverdue(ctx, time.Now(), time.Duration(expiryHours)*time.Hour)
	if err != nil {
		log.Fatalf("Failed to expire swap requests: %v", err)
	}

	if len(expired) == 0 {
		fmt.Println("No overdue swap requests.")
		return
	}

	fmt.Printf("Expired %d swap request(s):\n", len(expired))
	for _, request := range expired {
		fmt.Printf("  #%d raid=%s requester=%s created=%s\n",
			request.ID, request.RaidID, request.RequestingPlayerID, request.CreatedAt.Format(time.RFC3339))
	}
}
