package entities

import "time"

// Character is a playable character owned by exactly one player.
// Names are unique within the owning player's characters,
// case-insensitively.
type Character struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Class     Class     `json:"class"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
