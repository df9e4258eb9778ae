package player

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type StatsRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	DiscordID   string
}

type StatsHandler struct {
	services *services.Provider
}

func NewStatsHandler(services *services.Provider) *StatsHandler {
	return &StatsHandler{
		services: services,
	}
}

func (h *StatsHandler) Handle(req *StatsRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	stats, err := h.services.PlayerService.GetPlayerStats(context.Background(), req.DiscordID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to retrieve player stats: %v", err)))
	}

	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.PlayerEmbed(stats.Player, stats.Characters))
}
