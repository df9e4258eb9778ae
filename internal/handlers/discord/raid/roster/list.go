package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type ListRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
}

type ListHandler struct {
	services *services.Provider
}

func NewListHandler(services *services.Provider) *ListHandler {
	return &ListHandler{
		services: services,
	}
}

func (h *ListHandler) Handle(req *ListRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	raids, err := h.services.RosterService.ListRaids(context.Background())
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to list raids: %v", err)))
	}

	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.RaidListEmbed(raids))
}
