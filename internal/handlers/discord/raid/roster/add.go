package roster

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
	rosterService "github.com/guildops/raid-roster-discord/internal/services/roster"
)

type AddRequest struct {
	Session       *discordgo.Session
	Interaction   *discordgo.InteractionCreate
	Date          string
	DiscordID     string
	CharacterName string
	Position      *int
	Status        string
}

type AddHandler struct {
	services *services.Provider
}

func NewAddHandler(services *services.Provider) *AddHandler {
	return &AddHandler{
		services: services,
	}
}

func (h *AddHandler) Handle(req *AddRequest) error {
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

	assignment, err := h.services.RosterService.AddToRoster(context.Background(), &rosterService.AddToRosterInput{
		Date:          date,
		DiscordID:     req.DiscordID,
		CharacterName: req.CharacterName,
		Position:      req.Position,
		Status:        req.Status,
	})
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to add player: %v", err)))
	}

	statusText := "main roster"
	switch assignment.Status {
	case entities.AssignmentStatusBench:
		statusText = "the bench"
	case entities.AssignmentStatusAbsent:
		statusText = "absences"
	}
	message := fmt.Sprintf("<@%s> (%s) added to %s for **%s**.", req.DiscordID, assignment.CharacterName, statusText, date)
	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
