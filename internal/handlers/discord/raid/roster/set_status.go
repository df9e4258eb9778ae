package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

// SetStatusRequest serves both the bench and absence subcommands; the
// dispatcher fills Status accordingly.
type SetStatusRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
	DiscordID   string
	Status      string
}

type SetStatusHandler struct {
	services *services.Provider
}

func NewSetStatusHandler(services *services.Provider) *SetStatusHandler {
	return &SetStatusHandler{
		services: services,
	}
}

func (h *SetStatusHandler) Handle(req *SetStatusRequest) error {
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

	assignment, err := h.services.RosterService.SetStatus(context.Background(), date, req.DiscordID, req.Status)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to update status: %v", err)))
	}

	var message string
	switch assignment.Status {
	case entities.AssignmentStatusBench:
		message = fmt.Sprintf("<@%s> moved to bench for **%s**.", req.DiscordID, date)
	case entities.AssignmentStatusAbsent:
		message = fmt.Sprintf("<@%s> marked as absent for **%s**.", req.DiscordID, date)
	default:
		message = fmt.Sprintf("<@%s> moved to %s for **%s**.", req.DiscordID, assignment.Status, date)
	}
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
