package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
	playerService "github.com/guildops/raid-roster-discord/internal/services/player"
)

type AddCharacterRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	DiscordID   string
	Name        string
	Class       string
	Role        string
}

type AddCharacterHandler struct {
	services *services.Provider
}

func NewAddCharacterHandler(services *services.Provider) *AddCharacterHandler {
	return &AddCharacterHandler{
		services: services,
	}
}

func (h *AddCharacterHandler) Handle(req *AddCharacterRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	// Validate character name
	if strings.TrimSpace(req.Name) == "" {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed("Character name is required."))
	}

	character, err := h.services.PlayerService.AddCharacter(context.Background(), &playerService.AddCharacterInput{
		DiscordID: req.DiscordID,
		Name:      req.Name,
		Class:     req.Class,
		Role:      req.Role,
	})
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to add character: %v", err)))
	}

	roleText := ""
	if character.Role != entities.RoleNone {
		roleText = fmt.Sprintf(" - %s", character.Role)
	}
	message := fmt.Sprintf("Character **%s** (%s%s) added to <@%s>.", character.Name, character.Class, roleText, req.DiscordID)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
