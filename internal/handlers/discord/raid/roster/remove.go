package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type RemoveRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
	DiscordID   string
}

type RemoveHandler struct {
	services *services.Provider
}

func NewRemoveHandler(services *services.Provider) *RemoveHandler {
	return &RemoveHandler{
		services: services,
	}
}

func (h *RemoveHandler) Handle(req *RemoveRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	date, err := dates.Normalize(req.Date)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Invalid date format: **%s**. Try formats like: 2024-02-19, 19/02/2024, or '19th Feb'", req.Date)))
	}

	err = h.services.RosterService.RemoveFromRoster(context.Background(), date, req.DiscordID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to remove player: %v", err)))
	}

	message := fmt.Sprintf("<@%s> removed from roster for **%s**.", req.DiscordID, date)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
