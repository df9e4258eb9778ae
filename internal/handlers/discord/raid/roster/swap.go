package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type SwapPositionsRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
	DiscordIDA  string
	DiscordIDB  string
}

type SwapPositionsHandler struct {
	services *services.Provider
}

func NewSwapPositionsHandler(services *services.Provider) *SwapPositionsHandler {
	return &SwapPositionsHandler{
		services: services,
	}
}

func (h *SwapPositionsHandler) Handle(req *SwapPositionsRequest) error {
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

	if req.DiscordIDA == req.DiscordIDB {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed("Cannot swap a player with themselves."))
	}

	err = h.services.RosterService.SwapPositions(context.Background(), date, req.DiscordIDA, req.DiscordIDB)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to swap players: %v", err)))
	}

	message := fmt.Sprintf("Swap recorded between <@%s> and <@%s> for **%s**.", req.DiscordIDA, req.DiscordIDB, date)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
