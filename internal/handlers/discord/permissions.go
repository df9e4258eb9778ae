package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// IsOfficer reports whether the interaction caller holds one of the
// configured officer role names. DM interactions carry no member and are
// never officers.
func IsOfficer(s *discordgo.Session, i *discordgo.InteractionCreate, officerRoles []string) bool {
	if i.Member == nil || len(officerRoles) == 0 {
		return false
	}

	roles, err := guildRoles(s, i.GuildID)
	if err != nil {
		log.Printf("Error loading roles for guild %s: %v", i.GuildID, err)
		return false
	}

	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}

	for _, roleID := range i.Member.Roles {
		name := names[roleID]
		for _, authorized := range officerRoles {
			if name == authorized {
				return true
			}
		}
	}

	return false
}

// guildRoles reads roles from the session state cache, falling back to the API
func guildRoles(s *discordgo.Session, guildID string) ([]*discordgo.Role, error) {
	if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return s.GuildRoles(guildID)
}
