package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

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
	defer client.Close()

	// Test connection
	if _, pingErr := client.Ping(ctx).Result(); pingErr != nil {
		log.Fatalf("Failed to connect to Redis: %v", pingErr)
	}

	// Find all raid keys
	raidKeys, err := client.Keys(ctx, "raid:*").Result()
	if err != nil {
		log.Fatalf("Failed to get raid keys: %v", err)
	}

	fmt.Printf("Found %d raid keys:\n", len(raidKeys))
	for _, key := range raidKeys {
		keyType, typeErr := client.Type(ctx, key).Result()
		if typeErr != nil {
			fmt.Printf("  %s: ERROR - %v\n", key, typeErr)
			continue
		}

		// Raid documents are plain strings; roster and swap indexes are sets
		if keyType == "string" {
			data, getErr := client.Get(ctx, key).Result()
			if getErr != nil {
				fmt.Printf("  %s: ERROR - %v\n", key, getErr)
				continue
			}
			fmt.Printf("  %s: %d bytes\n", key, len(data))
		} else {
			members, cardErr := client.SCard(ctx, key).Result()
			if cardErr != nil {
				fmt.Printf("  %s: ERROR - %v\n", key, cardErr)
				continue
			}
			fmt.Printf("  %s: %s with %d members\n", key, keyType, members)
		}
	}

	// Also find swap request keys
	swapKeys, err := client.Keys(ctx, "swap_request:*").Result()
	if err != nil {
		log.Fatalf("Failed to get swap request keys: %v", err)
	}

	fmt.Printf("\nFound %d swap requests:\n", len(swapKeys))
	for _, key := range swapKeys {
		fmt.Printf("  %s\n", key)
	}
}
