package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/entities"
	playerHandler "github.com/guildops/raid-roster-discord/internal/handlers/discord/raid/player"
	rosterHandler "github.com/guildops/raid-roster-discord/internal/handlers/discord/raid/roster"
	statsHandler "github.com/guildops/raid-roster-discord/internal/handlers/discord/raid/stats"
	swapHandler "github.com/guildops/raid-roster-discord/internal/handlers/discord/raid/swap"
	"github.com/guildops/raid-roster-discord/internal/handlers/discord/utils"
	"github.com/guildops/raid-roster-discord/internal/services"
)

// Handler handles all Discord interactions
type Handler struct {
	ServiceProvider *services.Provider
	officerRoles    []string

	// Player handlers
	playerRegisterHandler     *playerHandler.RegisterHandler
	playerAddCharacterHandler *playerHandler.AddCharacterHandler
	playerStatsHandler        *playerHandler.StatsHandler
	playerListHandler         *playerHandler.ListHandler

	// Roster handlers
	rosterCreateHandler        *rosterHandler.CreateHandler
	rosterAddHandler           *rosterHandler.AddHandler
	rosterRemoveHandler        *rosterHandler.RemoveHandler
	rosterSetStatusHandler     *rosterHandler.SetStatusHandler
	rosterSwapPositionsHandler *rosterHandler.SwapPositionsHandler
	rosterViewHandler          *rosterHandler.ViewHandler
	rosterListHandler          *rosterHandler.ListHandler
	rosterCalendarHandler      *rosterHandler.CalendarHandler
	rosterDeleteHandler        *rosterHandler.DeleteHandler

	// Swap handlers
	swapCreateHandler  *swapHandler.CreateHandler
	swapAcceptHandler  *swapHandler.AcceptHandler
	swapApproveHandler *swapHandler.ApproveHandler
	swapDenyHandler    *swapHandler.DenyHandler
	swapCancelHandler  *swapHandler.CancelHandler
	swapStatusHandler  *swapHandler.StatusHandler
	swapListHandler    *swapHandler.ListHandler

	// Stats handlers
	statsOverviewHandler *statsHandler.OverviewHandler
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider  *services.Provider
	Notifier         swapHandler.Notifier
	OfficerRoles     []string
	AutoApproveSwaps bool
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	return &Handler{
		ServiceProvider: cfg.ServiceProvider,
		officerRoles:    cfg.OfficerRoles,

		// Initialize player handlers
		playerRegisterHandler:     playerHandler.NewRegisterHandler(cfg.ServiceProvider),
		playerAddCharacterHandler: playerHandler.NewAddCharacterHandler(cfg.ServiceProvider),
		playerStatsHandler:        playerHandler.NewStatsHandler(cfg.ServiceProvider),
		playerListHandler:         playerHandler.NewListHandler(cfg.ServiceProvider),

		// Initialize roster handlers
		rosterCreateHandler:        rosterHandler.NewCreateHandler(cfg.ServiceProvider),
		rosterAddHandler:           rosterHandler.NewAddHandler(cfg.ServiceProvider),
		rosterRemoveHandler:        rosterHandler.NewRemoveHandler(cfg.ServiceProvider),
		rosterSetStatusHandler:     rosterHandler.NewSetStatusHandler(cfg.ServiceProvider),
		rosterSwapPositionsHandler: rosterHandler.NewSwapPositionsHandler(cfg.ServiceProvider),
		rosterViewHandler:          rosterHandler.NewViewHandler(cfg.ServiceProvider),
		rosterListHandler:          rosterHandler.NewListHandler(cfg.ServiceProvider),
		rosterCalendarHandler:      rosterHandler.NewCalendarHandler(cfg.ServiceProvider),
		rosterDeleteHandler:        rosterHandler.NewDeleteHandler(cfg.ServiceProvider),

		// Initialize swap handlers
		swapCreateHandler:  swapHandler.NewCreateHandler(cfg.ServiceProvider, cfg.Notifier),
		swapAcceptHandler:  swapHandler.NewAcceptHandler(cfg.ServiceProvider, cfg.Notifier, cfg.AutoApproveSwaps),
		swapApproveHandler: swapHandler.NewApproveHandler(cfg.ServiceProvider),
		swapDenyHandler:    swapHandler.NewDenyHandler(cfg.ServiceProvider),
		swapCancelHandler:  swapHandler.NewCancelHandler(cfg.ServiceProvider),
		swapStatusHandler:  swapHandler.NewStatusHandler(cfg.ServiceProvider),
		swapListHandler:    swapHandler.NewListHandler(cfg.ServiceProvider),

		// Initialize stats handlers
		statsOverviewHandler: statsHandler.NewOverviewHandler(cfg.ServiceProvider),
	}
}

// RegisterCommands registers all slash commands with Discord
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "raid",
			Description: "Guild raid roster commands",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "player",
					Description: "Player and character registry",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "register",
							Description: "Register a player",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "name",
									Description: "Player name",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Discord user to link (defaults to you)",
									Required:    false,
								},
							},
						},
						{
							Name:        "add-character",
							Description: "Add a character to a player",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "name",
									Description: "Character name",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "class",
									Description: "WoW class",
									Required:    true,
									Choices:     classChoices(),
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "role",
									Description: "Character role",
									Required:    false,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "Tank", Value: "Tank"},
										{Name: "Healer", Value: "Healer"},
										{Name: "DPS", Value: "DPS"},
									},
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Owning player (defaults to you)",
									Required:    false,
								},
							},
						},
						{
							Name:        "stats",
							Description: "Show player statistics",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Player to look up (defaults to you)",
									Required:    false,
								},
							},
						},
						{
							Name:        "list",
							Description: "List all registered players",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
					},
				},
				{
					Name:        "roster",
					Description: "Raid scheduling and roster management",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "create",
							Description: "Create a raid event (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "time",
									Description: "Raid time, e.g. 20:00",
									Required:    false,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "timezone",
									Description: "Timezone label, e.g. ST",
									Required:    false,
								},
							},
						},
						{
							Name:        "add",
							Description: "Add a player to a raid roster (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Player to add",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "character",
									Description: "Character to roster",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "position",
									Description: "Roster position",
									Required:    false,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "status",
									Description: "Roster status (defaults to main)",
									Required:    false,
									Choices: []*discordgo.ApplicationCommandOptionChoice{
										{Name: "Main", Value: "main"},
										{Name: "Bench", Value: "bench"},
										{Name: "Absent", Value: "absent"},
									},
								},
							},
						},
						{
							Name:        "remove",
							Description: "Remove a player from a raid roster (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Player to remove",
									Required:    true,
								},
							},
						},
						{
							Name:        "bench",
							Description: "Move a player to the bench (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Player to bench",
									Required:    true,
								},
							},
						},
						{
							Name:        "absence",
							Description: "Mark a player absent (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user",
									Description: "Player to mark absent",
									Required:    true,
								},
							},
						},
						{
							Name:        "swap",
							Description: "Directly exchange two players' roster slots (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user-a",
									Description: "First player",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionUser,
									Name:        "user-b",
									Description: "Second player",
									Required:    true,
								},
							},
						},
						{
							Name:        "view",
							Description: "Display a raid roster",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
							},
						},
						{
							Name:        "list",
							Description: "List all scheduled raids",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
						{
							Name:        "calendar",
							Description: "Show upcoming raids by week",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "weeks",
									Description: "Weeks ahead to include, 1-12 (default 4)",
									Required:    false,
								},
							},
						},
						{
							Name:        "delete",
							Description: "Delete a raid and everything on it (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
							},
						},
					},
				},
				{
					Name:        "swap",
					Description: "Roster swap requests",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "request",
							Description: "Request to swap out of the main roster",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "date",
									Description: "Raid date",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "reason",
									Description: "Reason for the swap request",
									Required:    false,
								},
							},
						},
						{
							Name:        "accept",
							Description: "Accept a swap request from the bench",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "request-id",
									Description: "Swap request ID",
									Required:    true,
								},
							},
						},
						{
							Name:        "approve",
							Description: "Approve a swap request (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "request-id",
									Description: "Swap request ID",
									Required:    true,
								},
							},
						},
						{
							Name:        "deny",
							Description: "Deny a swap request (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "request-id",
									Description: "Swap request ID",
									Required:    true,
								},
								{
									Type:        discordgo.ApplicationCommandOptionString,
									Name:        "reason",
									Description: "Reason for the denial",
									Required:    false,
								},
							},
						},
						{
							Name:        "cancel",
							Description: "Cancel your own swap request",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
							Options: []*discordgo.ApplicationCommandOption{
								{
									Type:        discordgo.ApplicationCommandOptionInteger,
									Name:        "request-id",
									Description: "Swap request ID",
									Required:    true,
								},
							},
						},
						{
							Name:        "status",
							Description: "View your swap requests",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
						{
							Name:        "list",
							Description: "List open swap requests",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
					},
				},
				{
					Name:        "stats",
					Description: "Guild statistics",
					Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "overview",
							Description: "Show guild-wide totals (officers)",
							Type:        discordgo.ApplicationCommandOptionSubCommand,
						},
					},
				},
			},
		},
	}

	for _, cmd := range commands {
		_, err := s.ApplicationCommandCreate(s.State.User.ID, guildID, cmd)
		if err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		log.Printf("Registered command: %s", cmd.Name)
	}

	return nil
}

// classChoices builds the class option choices from the entity list
func classChoices() []*discordgo.ApplicationCommandOptionChoice {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(entities.Classes))
	for _, class := range entities.Classes {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  class.String(),
			Value: class.String(),
		})
	}
	return choices
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(s, i)
	}
}

// officerGated lists the subcommands only officers may run
var officerGated = map[string]bool{
	"roster create":  true,
	"roster add":     true,
	"roster remove":  true,
	"roster bench":   true,
	"roster absence": true,
	"roster swap":    true,
	"roster delete":  true,
	"swap approve":   true,
	"swap deny":      true,
	"stats overview": true,
}

// handleCommand handles slash command interactions
func (h *Handler) handleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	// Check for /raid command
	if data.Name != "raid" {
		return
	}

	// Check for subcommand group
	if len(data.Options) == 0 {
		return
	}
	group := data.Options[0]
	if group.Type != discordgo.ApplicationCommandOptionSubCommandGroup || len(group.Options) == 0 {
		return
	}
	subcommand := group.Options[0]

	if officerGated[group.Name+" "+subcommand.Name] && !IsOfficer(s, i, h.officerRoles) {
		h.respondPermissionDenied(s, i)
		return
	}

	switch group.Name {
	case "player":
		h.handlePlayerCommand(s, i, subcommand.Name)
	case "roster":
		h.handleRosterCommand(s, i, subcommand.Name)
	case "swap":
		h.handleSwapCommand(s, i, subcommand.Name)
	case "stats":
		h.handleStatsCommand(s, i, subcommand.Name)
	}
}

func (h *Handler) handlePlayerCommand(s *discordgo.Session, i *discordgo.InteractionCreate, subcommand string) {
	switch subcommand {
	case "register":
		discordID := utils.GetUserOption(i, "user")
		if discordID == "" {
			discordID = utils.CallerID(i)
		}
		req := &playerHandler.RegisterRequest{
			Session:     s,
			Interaction: i,
			DiscordID:   discordID,
			Name:        utils.GetStringOption(i, "name"),
		}
		if err := h.playerRegisterHandler.Handle(req); err != nil {
			log.Printf("Error handling player register: %v", err)
		}
	case "add-character":
		discordID := utils.GetUserOption(i, "user")
		if discordID == "" {
			discordID = utils.CallerID(i)
		}
		req := &playerHandler.AddCharacterRequest{
			Session:     s,
			Interaction: i,
			DiscordID:   discordID,
			Name:        utils.GetStringOption(i, "name"),
			Class:       utils.GetStringOption(i, "class"),
			Role:        utils.GetStringOption(i, "role"),
		}
		if err := h.playerAddCharacterHandler.Handle(req); err != nil {
			log.Printf("Error handling player add-character: %v", err)
		}
	case "stats":
		discordID := utils.GetUserOption(i, "user")
		if discordID == "" {
			discordID = utils.CallerID(i)
		}
		req := &playerHandler.StatsRequest{
			Session:     s,
			Interaction: i,
			DiscordID:   discordID,
		}
		if err := h.playerStatsHandler.Handle(req); err != nil {
			log.Printf("Error handling player stats: %v", err)
		}
	case "list":
		req := &playerHandler.ListRequest{
			Session:     s,
			Interaction: i,
		}
		if err := h.playerListHandler.Handle(req); err != nil {
			log.Printf("Error handling player list: %v", err)
		}
	}
}

func (h *Handler) handleRosterCommand(s *discordgo.Session, i *discordgo.InteractionCreate, subcommand string) {
	switch subcommand {
	case "create":
		req := &rosterHandler.CreateRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			Time:        utils.GetStringOption(i, "time"),
			Timezone:    utils.GetStringOption(i, "timezone"),
		}
		if err := h.rosterCreateHandler.Handle(req); err != nil {
			log.Printf("Error handling roster create: %v", err)
		}
	case "add":
		var position *int
		if opt := utils.GetCommandOption(i, "position"); opt != nil {
			value := int(opt.IntValue())
			position = &value
		}
		req := &rosterHandler.AddRequest{
			Session:       s,
			Interaction:   i,
			Date:          utils.GetStringOption(i, "date"),
			DiscordID:     utils.GetUserOption(i, "user"),
			CharacterName: utils.GetStringOption(i, "character"),
			Position:      position,
			Status:        utils.GetStringOption(i, "status"),
		}
		if err := h.rosterAddHandler.Handle(req); err != nil {
			log.Printf("Error handling roster add: %v", err)
		}
	case "remove":
		req := &rosterHandler.RemoveRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			DiscordID:   utils.GetUserOption(i, "user"),
		}
		if err := h.rosterRemoveHandler.Handle(req); err != nil {
			log.Printf("Error handling roster remove: %v", err)
		}
	case "bench":
		req := &rosterHandler.SetStatusRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			DiscordID:   utils.GetUserOption(i, "user"),
			Status:      "bench",
		}
		if err := h.rosterSetStatusHandler.Handle(req); err != nil {
			log.Printf("Error handling roster bench: %v", err)
		}
	case "absence":
		req := &rosterHandler.SetStatusRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			DiscordID:   utils.GetUserOption(i, "user"),
			Status:      "absent",
		}
		if err := h.rosterSetStatusHandler.Handle(req); err != nil {
			log.Printf("Error handling roster absence: %v", err)
		}
	case "swap":
		req := &rosterHandler.SwapPositionsRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			DiscordIDA:  utils.GetUserOption(i, "user-a"),
			DiscordIDB:  utils.GetUserOption(i, "user-b"),
		}
		if err := h.rosterSwapPositionsHandler.Handle(req); err != nil {
			log.Printf("Error handling roster swap: %v", err)
		}
	case "view":
		req := &rosterHandler.ViewRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
		}
		if err := h.rosterViewHandler.Handle(req); err != nil {
			log.Printf("Error handling roster view: %v", err)
		}
	case "list":
		req := &rosterHandler.ListRequest{
			Session:     s,
			Interaction: i,
		}
		if err := h.rosterListHandler.Handle(req); err != nil {
			log.Printf("Error handling roster list: %v", err)
		}
	case "calendar":
		req := &rosterHandler.CalendarRequest{
			Session:     s,
			Interaction: i,
			Weeks:       int(utils.GetIntOption(i, "weeks")),
		}
		if err := h.rosterCalendarHandler.Handle(req); err != nil {
			log.Printf("Error handling roster calendar: %v", err)
		}
	case "delete":
		req := &rosterHandler.DeleteRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
		}
		if err := h.rosterDeleteHandler.Handle(req); err != nil {
			log.Printf("Error handling roster delete: %v", err)
		}
	}
}

func (h *Handler) handleSwapCommand(s *discordgo.Session, i *discordgo.InteractionCreate, subcommand string) {
	switch subcommand {
	case "request":
		req := &swapHandler.CreateRequest{
			Session:     s,
			Interaction: i,
			Date:        utils.GetStringOption(i, "date"),
			DiscordID:   utils.CallerID(i),
			Reason:      utils.GetStringOption(i, "reason"),
		}
		if err := h.swapCreateHandler.Handle(req); err != nil {
			log.Printf("Error handling swap request: %v", err)
		}
	case "accept":
		req := &swapHandler.AcceptRequest{
			Session:     s,
			Interaction: i,
			RequestID:   utils.GetIntOption(i, "request-id"),
			DiscordID:   utils.CallerID(i),
		}
		if err := h.swapAcceptHandler.Handle(req); err != nil {
			log.Printf("Error handling swap accept: %v", err)
		}
	case "approve":
		req := &swapHandler.ApproveRequest{
			Session:     s,
			Interaction: i,
			RequestID:   utils.GetIntOption(i, "request-id"),
		}
		if err := h.swapApproveHandler.Handle(req); err != nil {
			log.Printf("Error handling swap approve: %v", err)
		}
	case "deny":
		req := &swapHandler.DenyRequest{
			Session:     s,
			Interaction: i,
			RequestID:   utils.GetIntOption(i, "request-id"),
			Reason:      utils.GetStringOption(i, "reason"),
		}
		if err := h.swapDenyHandler.Handle(req); err != nil {
			log.Printf("Error handling swap deny: %v", err)
		}
	case "cancel":
		req := &swapHandler.CancelRequest{
			Session:     s,
			Interaction: i,
			RequestID:   utils.GetIntOption(i, "request-id"),
			DiscordID:   utils.CallerID(i),
		}
		if err := h.swapCancelHandler.Handle(req); err != nil {
			log.Printf("Error handling swap cancel: %v", err)
		}
	case "status":
		req := &swapHandler.StatusRequest{
			Session:     s,
			Interaction: i,
			DiscordID:   utils.CallerID(i),
		}
		if err := h.swapStatusHandler.Handle(req); err != nil {
			log.Printf("Error handling swap status: %v", err)
		}
	case "list":
		req := &swapHandler.ListRequest{
			Session:     s,
			Interaction: i,
		}
		if err := h.swapListHandler.Handle(req); err != nil {
			log.Printf("Error handling swap list: %v", err)
		}
	}
}

func (h *Handler) handleStatsCommand(s *discordgo.Session, i *discordgo.InteractionCreate, subcommand string) {
	switch subcommand {
	case "overview":
		req := &statsHandler.OverviewRequest{
			Session:     s,
			Interaction: i,
		}
		if err := h.statsOverviewHandler.Handle(req); err != nil {
			log.Printf("Error handling stats overview: %v", err)
		}
	}
}

// respondPermissionDenied sends an ephemeral rejection without deferring
func (h *Handler) respondPermissionDenied(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ You don't have permission to use this command. Officer role required.",
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error responding to unauthorized command: %v", err)
	}
}
