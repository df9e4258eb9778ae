package roster

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

const defaultCalendarWeeks = 4

type CalendarRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Weeks       int
}

type CalendarHandler struct {
	services *services.Provider
}

func NewCalendarHandler(services *services.Provider) *CalendarHandler {
	return &CalendarHandler{
		services: services,
	}
}

func (h *CalendarHandler) Handle(req *CalendarRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	weeks := req.Weeks
	if weeks == 0 {
		weeks = defaultCalendarWeeks
	}
	if weeks < 1 || weeks > 12 {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed("Weeks must be between 1 and 12."))
	}

	summaries, err := h.services.RosterService.UpcomingRaids(context.Background(), time.Now(), weeks)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to load raid calendar: %v", err)))
	}

	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.CalendarEmbed(summaries, weeks))
}
