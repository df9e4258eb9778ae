package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Roster  RosterConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RosterConfig holds roster and swap workflow configuration
type RosterConfig struct {
	// SwapChannelID is where swap lifecycle notifications are posted; empty disables them
	SwapChannelID string

	// AuthorizedRoles are the role names allowed to run officer commands
	AuthorizedRoles []string

	// AutoApproveSwaps commits accepted swaps without officer approval
	AutoApproveSwaps bool

	// SwapExpiry is how long a pending swap request lives before it expires
	SwapExpiry time.Duration

	// SwapSweepInterval is how often the expiry sweep runs
	SwapSweepInterval time.Duration

	// DefaultTimezone labels raids created without an explicit timezone
	DefaultTimezone string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			AppID:   os.Getenv("DISCORD_APP_ID"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Roster: RosterConfig{
			SwapChannelID:     os.Getenv("SWAP_CHANNEL_ID"),
			AuthorizedRoles:   getEnvAsListOrDefault("AUTHORIZED_ROLES", []string{"Officer", "Raid Leader"}),
			AutoApproveSwaps:  getEnvAsBoolOrDefault("AUTO_APPROVE_SWAPS", false),
			SwapExpiry:        time.Duration(getEnvAsIntOrDefault("SWAP_EXPIRY_HOURS", 48)) * time.Hour,
			SwapSweepInterval: time.Duration(getEnvAsIntOrDefault("SWAP_SWEEP_MINUTES", 30)) * time.Minute,
			DefaultTimezone:   getEnvOrDefault("DEFAULT_TIMEZONE", "UTC"),
		},
	}

	// Validate required fields
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}
	if cfg.Roster.SwapExpiry <= 0 {
		return nil, fmt.Errorf("SWAP_EXPIRY_HOURS must be positive")
	}
	if cfg.Roster.SwapSweepInterval <= 0 {
		return nil, fmt.Errorf("SWAP_SWEEP_MINUTES must be positive")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}
