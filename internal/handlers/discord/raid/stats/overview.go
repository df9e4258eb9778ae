package stats

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type OverviewRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
}

type OverviewHandler struct {
	services *services.Provider
}

func NewOverviewHandler(services *services.Provider) *OverviewHandler {
	return &OverviewHandler{
		services: services,
	}
}

func (h *OverviewHandler) Handle(req *OverviewRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	overview, err := h.services.RosterService.Overview(context.Background())
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to load guild overview: %v", err)))
	}

	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.OverviewEmbed(overview))
}
