package entities

import "time"

// Player is a guild member registered with the bot. DiscordID is the
// unique external identity; TotalRostered and TotalBenched are eager
// counters maintained by the roster ledger alongside every assignment
// mutation, never set directly.
type Player struct {
	ID            string    `json:"id"`
	DiscordID     string    `json:"discord_id"`
	Name          string    `json:"name"`
	TotalRostered int       `json:"total_rostered"`
	TotalBenched  int       `json:"total_benched"`
	CreatedAt     time.Time `json:"created_at"`
}
