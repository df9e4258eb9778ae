package roster

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
	rosterService "github.com/guildops/raid-roster-discord/internal/services/roster"
)

type CreateRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
	Time        string
	Timezone    string
}

type CreateHandler struct {
	services *services.Provider
}

func NewCreateHandler(services *services.Provider) *CreateHandler {
	return &CreateHandler{
		services: services,
	}
}

func (h *CreateHandler) Handle(req *CreateRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	// Validate raid date
	if strings.TrimSpace(req.Date) == "" {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed("Raid date is required."))
	}

	raid, err := h.services.RosterService.CreateRaid(context.Background(), &rosterService.CreateRaidInput{
		Date:     req.Date,
		Time:     req.Time,
		Timezone: req.Timezone,
	})
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to create raid: %v", err)))
	}

	message := fmt.Sprintf("Raid created for **%s**", raid.Date)
	if raid.Time != "" {
		message += fmt.Sprintf(" at %s", raid.Time)
	}
	if raid.Timezone != "" {
		message += " " + raid.Timezone
	}
	message += "."
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
