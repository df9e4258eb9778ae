package swap

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/helpers"
	"github.com/guildops/raid-roster-discord/internal/services"
)

type AcceptRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	RequestID   int64
	DiscordID   string
}

type AcceptHandler struct {
	services    *services.Provider
	notifier    Notifier
	autoApprove bool
}

func NewAcceptHandler(services *services.Provider, notifier Notifier, autoApprove bool) *AcceptHandler {
	return &AcceptHandler{
		services:    services,
		notifier:    notifier,
		autoApprove: autoApprove,
	}
}

func (h *AcceptHandler) Handle(req *AcceptRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	request, err := h.services.SwapService.AcceptSwap(context.Background(), req.RequestID, req.DiscordID, h.autoApprove)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to accept swap request: %v", err)))
	}

	views, describeErr := h.services.SwapService.DescribeRequests(context.Background(), []*entities.SwapRequest{request})
	if describeErr != nil {
		log.Printf("Error describing swap request #%d: %v", request.ID, describeErr)
	}

	// Auto-approval already committed the roster exchange
	if request.Status == entities.SwapStatusApproved {
		message := fmt.Sprintf("Swap request #%d approved and executed.", request.ID)
		if len(views) == 1 && views[0].Acceptor != nil {
			message = fmt.Sprintf("Swap executed! **%s** → Bench, **%s** → Main Roster", views[0].Requester.Name, views[0].Acceptor.Name)
		}
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
	}

	message := fmt.Sprintf("You have accepted the swap request. Waiting for officer approval.\nRequest ID: #%d", request.ID)
	if err := helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message)); err != nil {
		return err
	}

	// Channel notification is best-effort
	if h.notifier != nil && len(views) == 1 {
		h.notifier.ApprovalNeeded(req.Session, req.Interaction.GuildID, helpers.SwapRequestEmbed(views[0]))
	}

	return nil
}
