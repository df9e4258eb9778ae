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

type ApproveRequest struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	RequestID   int64
}

type ApproveHandler struct {
	services *services.Provider
}

func NewApproveHandler(services *services.Provider) *ApproveHandler {
	return &ApproveHandler{
		services: services,
	}
}

func (h *ApproveHandler) Handle(req *ApproveRequest) error {
	// Defer acknowledge the interaction
	err := req.Session.InteractionRespond(req.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return fmt.Errorf("failed to acknowledge interaction: %w", err)
	}

	request, err := h.services.SwapService.ApproveSwap(context.Background(), req.RequestID)
	if err != nil {
		return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.ErrorEmbed(fmt.Sprintf("Failed to approve swap request: %v", err)))
	}

	message := fmt.Sprintf("Swap request #%d approved and executed.", request.ID)
	views, describeErr := h.services.SwapService.DescribeRequests(context.Background(), []*entities.SwapRequest{request})
	if describeErr != nil {
		log.Printf("Error describing swap request #%d: %v", request.ID, describeErr)
	} else if len(views) == 1 && views[0].Acceptor != nil {
		message = fmt.Sprintf("Swap approved and executed!\n**%s** → Bench\n**%s** → Main Roster", views[0].Requester.Name, views[0].Acceptor.Name)
	}

	return helpers.EditWithEmbed(req.Session, req.Interaction, helpers.SuccessEmbed(message))
}
