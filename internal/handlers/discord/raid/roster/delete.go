package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type DeleteRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
}

type DeleteHandler struct {
	services *services.Provider
}

func NewDeleteHandler(services *services.Provider) *DeleteHandler {
	return &DeleteHandler{
		services: services,
	}
}

func (h *DeleteHandler) Handle(req *DeleteRequest) error {
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

	err = h.services.RosterService.DeleteRaid(context.Background(), date)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to delete raid: %v", err)))
	}

	message := fmt.Sprintf("Raid on **%s** deleted along with its assignments and swap requests.", date)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
