package swap

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type CancelRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	RequestID   int64
	DiscordID   string
}

type CancelHandler struct {
	services *services.Provider
}

func NewCancelHandler(services *services.Provider) *CancelHandler {
	return &CancelHandler{
		services: services,
	}
}

func (h *CancelHandler) Handle(req *CancelRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	request, err := h.services.SwapService.CancelSwap(context.Background(), req.RequestID, req.DiscordID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to cancel swap request: %v", err)))
	}

	message := fmt.Sprintf("Swap request #%d has been cancelled.", request.ID)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
