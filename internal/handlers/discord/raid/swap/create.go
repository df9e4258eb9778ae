package swap

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type CreateRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Date        string
	DiscordID   string
	Reason      string
}

type CreateHandler struct {
	services *services.Provider
	notifier Notifier
}

func NewCreateHandler(services *services.Provider, notifier Notifier) *CreateHandler {
	return &CreateHandler{
		services: services,
		notifier: notifier,
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

	date, err := dates.Normalize(req.Date)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Invalid date format: **%s**. Try formats like: 2024-02-19, 19/02/2024, or '19th Feb'", req.Date)))
	}

	request, err := h.services.SwapService.RequestSwap(context.Background(), date, req.DiscordID, req.Reason)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to create swap request: %v", err)))
	}

	message := fmt.Sprintf("Swap request created for **%s** (Request #%d).\nBench players can now accept this request.", date, request.ID)
	if err := helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message)); err != nil {
		return err
	}

	// Channel notification is best-effort
	if h.notifier != nil {
		views, describeErr := h.services.SwapService.DescribeRequests(context.Background(), []*entities.SwapRequest{request})
		if describeErr != nil || len(views) == 0 {
			log.Printf("Error describing swap request #%d for notification: %v", request.ID, describeErr)
			return nil
		}
		h.notifier.SwapRequested(req.Session, helpers.SwapRequestEmbed(views[0]))
	}

	return nil
}
