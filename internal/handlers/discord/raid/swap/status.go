package swap

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type StatusRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	DiscordID   string
}

type StatusHandler struct {
	services *services.Provider
}

func NewStatusHandler(services *services.Provider) *StatusHandler {
	return &StatusHandler{
		services: services,
	}
}

func (h *StatusHandler) Handle(req *StatusRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	player, err := h.services.PlayerService.GetByDiscordID(context.Background(), req.DiscordID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to look up your swap requests: %v", err)))
	}

	requests, err := h.services.SwapService.ListRequestsByPlayer(context.Background(), req.DiscordID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to look up your swap requests: %v", err)))
	}

	if len(requests) == 0 {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed("You have no swap requests."))
	}

	views, err := h.services.SwapService.DescribeRequests(context.Background(), requests)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to look up your swap requests: %v", err)))
	}

	title := fmt.Sprintf("🔄 Swap Requests for %s", player.Name)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SwapListEmbed(title, views))
}
