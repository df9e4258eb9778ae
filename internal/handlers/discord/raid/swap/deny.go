package swap

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type DenyRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	RequestID   int64
	Reason      string
}

type DenyHandler struct {
	services *services.Provider
}

func NewDenyHandler(services *services.Provider) *DenyHandler {
	return &DenyHandler{
		services: services,
	}
}

func (h *DenyHandler) Handle(req *DenyRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	request, err := h.services.SwapService.DenySwap(context.Background(), req.RequestID, req.Reason)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to deny swap request: %v", err)))
	}

	message := fmt.Sprintf("Swap request #%d has been denied.", request.ID)
	if request.ResolutionNote != "" {
		message += fmt.Sprintf("\n**Reason:** %s", request.ResolutionNote)
	}
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
