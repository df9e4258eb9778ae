package testutils

import (
	"time"

	"github.com/guildops/raid-roster-discord/internal/entities"
)

// CreateTestPlayer creates a test player entity
func CreateTestPlayer(id, discordID, name string) *entities.Player {
	return &entities.Player{
		ID:        id,
		DiscordID: discordID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestCharacter creates a test character entity
func CreateTestCharacter(id, playerID, name string, class entities.Class, role entities.Role) *entities.Character {
	return &entities.Character{
		ID:        id,
		PlayerID:  playerID,
		Name:      name,
		Class:     class,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestRaid creates a test raid entity on the given canonical date
func CreateTestRaid(id, date string) *entities.Raid {
	return &entities.Raid{
		ID:        id,
		Date:      date,
		Time:      "20:00",
		Timezone:  "UTC",
		CreatedAt: time.Now().UTC(),
	}
}

// CreateTestAssignment creates a test roster assignment
func CreateTestAssignment(id, raidID, playerID, characterID, characterName string, status entities.AssignmentStatus) *entities.RosterAssignment {
	return &entities.RosterAssignment{
		ID:            id,
		RaidID:        raidID,
		PlayerID:      playerID,
		CharacterID:   characterID,
		CharacterName: characterName,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
}

// CreateTestSwapRequest creates a pending test swap request
func CreateTestSwapRequest(raidID, requestingPlayerID, reason string) *entities.SwapRequest {
	return &entities.SwapRequest{
		RaidID:             raidID,
		RequestingPlayerID: requestingPlayerID,
		Reason:             reason,
		Status:             entities.SwapStatusPending,
		CreatedAt:          time.Now().UTC(),
	}
}
