package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type RegisterRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	DiscordID   string
	Name        string
}

type RegisterHandler struct {
	services *services.Provider
}

func NewRegisterHandler(services *services.Provider) *RegisterHandler {
	return &RegisterHandler{
		services: services,
	}
}

func (h *RegisterHandler) Handle(req *RegisterRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	// Validate player name
	if strings.TrimSpace(req.Name) == "" {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed("Player name is required."))
	}

	player, err := h.services.PlayerService.RegisterPlayer(context.Background(), req.DiscordID, req.Name)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to register player: %v", err)))
	}

	message := fmt.Sprintf("Player **%s** registered and linked to <@%s>.", player.Name, player.DiscordID)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
