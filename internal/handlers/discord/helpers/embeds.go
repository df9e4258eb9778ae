package helpers

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/guildops/raid-roster-discord/internal/dates"
	"github.com/guildops/raid-roster-discord/internal/entities"
	"github.com/guildops/raid-roster-discord/internal/services/roster"
	"github.com/guildops/raid-roster-discord/internal/services/swap"
)

// Embed colors shared across all command responses
const (
	DefaultColor = 0x5865F2 // Discord blurple
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	PendingColor = 0xFFA500 // Orange
)

// listLimit caps list embeds below Discord's description limits
const listLimit = 25

// ErrorEmbed builds the standard error response embed
func ErrorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: message,
		Color:       ErrorColor,
	}
}

// SuccessEmbed builds the standard success response embed
func SuccessEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "✅ Success",
		Description: message,
		Color:       SuccessColor,
	}
}

// RosterEmbed renders a raid's full roster, one field per status bucket.
// Buckets keep the view's ordering: position ascending, unpositioned last.
func RosterEmbed(view *roster.RosterView) *discordgo.MessageEmbed {
	title := fmt.Sprintf("📋 Raid Roster - %s", view.Raid.Date)
	if view.Raid.Time != "" {
		title += fmt.Sprintf(" at %s", view.Raid.Time)
	}
	if view.Raid.Timezone != "" {
		title += fmt.Sprintf(" %s", view.Raid.Timezone)
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  DefaultColor,
		Fields: make([]*discordgo.MessageEmbedField, 0),
	}

	addBucket := func(name string, assignments []*entities.RosterAssignment) {
		if len(assignments) == 0 {
			return
		}
		var sb strings.Builder
		for _, assignment := range assignments {
			sb.WriteString(fmt.Sprintf("• %s (%s)\n", playerName(view.Players, assignment.PlayerID), assignment.CharacterName))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d)", name, len(assignments)),
			Value:  sb.String(),
			Inline: false,
		})
	}

	addBucket("Main Roster", view.Main)
	addBucket("Benches", view.Bench)
	addBucket("Absences", view.Absent)
	addBucket("Swaps", view.Swap)

	if len(view.Main)+len(view.Bench)+len(view.Absent)+len(view.Swap) == 0 {
		embed.Description = "No players assigned yet."
	}

	if len(view.PendingSwaps) > 0 {
		var sb strings.Builder
		for _, request := range view.PendingSwaps {
			sb.WriteString(fmt.Sprintf("• #%d - %s", request.ID, playerName(view.Players, request.RequestingPlayerID)))
			if request.Reason != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", request.Reason))
			}
			sb.WriteString("\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Pending Swap Requests (%d)", len(view.PendingSwaps)),
			Value:  sb.String(),
			Inline: false,
		})
	}

	return embed
}

// PlayerEmbed renders one player's counters and characters. The embed
// takes the class color of the player's first character when they have one.
func PlayerEmbed(player *entities.Player, characters []*entities.Character) *discordgo.MessageEmbed {
	color := DefaultColor
	if len(characters) > 0 {
		color = characters[0].Class.Color()
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📊 Stats for %s", player.Name),
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Raids Rostered",
				Value:  fmt.Sprintf("%d", player.TotalRostered),
				Inline: true,
			},
			{
				Name:   "Total Benches",
				Value:  fmt.Sprintf("%d", player.TotalBenched),
				Inline: true,
			},
		},
	}

	if len(characters) > 0 {
		var sb strings.Builder
		for _, char := range characters {
			sb.WriteString(fmt.Sprintf("• %s (%s", char.Name, char.Class))
			if char.Role != entities.RoleNone {
				sb.WriteString(fmt.Sprintf(" - %s", char.Role))
			}
			sb.WriteString(")\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Characters",
			Value:  sb.String(),
			Inline: false,
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Characters",
			Value:  "No characters registered",
			Inline: false,
		})
	}

	return embed
}

// PlayerListEmbed renders every registered player with their counters
func PlayerListEmbed(players []*entities.Player) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "👥 Registered Players",
		Color: DefaultColor,
	}

	if len(players) == 0 {
		embed.Description = "No players registered yet."
		return embed
	}

	shown := players
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}

	var sb strings.Builder
	for _, player := range shown {
		sb.WriteString(fmt.Sprintf("• **%s** - Raids: %d, Benches: %d\n", player.Name, player.TotalRostered, player.TotalBenched))
	}
	embed.Description = sb.String()

	if len(players) > listLimit {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d players", listLimit, len(players)),
		}
	}

	return embed
}

// RaidListEmbed renders scheduled raids in date order
func RaidListEmbed(raids []*entities.Raid) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📅 Upcoming Raids",
		Color: DefaultColor,
	}

	if len(raids) == 0 {
		embed.Description = "No raids scheduled yet."
		return embed
	}

	shown := raids
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}

	var sb strings.Builder
	for _, raid := range shown {
		sb.WriteString(fmt.Sprintf("• **%s**", raid.Date))
		if raid.Time != "" {
			sb.WriteString(fmt.Sprintf(" at %s", raid.Time))
		}
		if raid.Timezone != "" {
			sb.WriteString(fmt.Sprintf(" %s", raid.Timezone))
		}
		sb.WriteString("\n")
	}
	embed.Description = sb.String()

	if len(raids) > listLimit {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d raids", listLimit, len(raids)),
		}
	}

	return embed
}

// CalendarEmbed renders upcoming raids with their headcounts, one field
// per ISO week
func CalendarEmbed(summaries []*roster.RaidSummary, weeks int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "📅 Raid Calendar",
		Color:  DefaultColor,
		Fields: make([]*discordgo.MessageEmbedField, 0),
	}

	if len(summaries) == 0 {
		embed.Description = fmt.Sprintf("No raids scheduled in the next %d week(s).", weeks)
		return embed
	}

	type weekKey struct {
		year int
		week int
	}
	order := make([]weekKey, 0)
	grouped := make(map[weekKey][]*roster.RaidSummary)
	for _, summary := range summaries {
		day, err := dates.Parse(summary.Raid.Date)
		if err != nil {
			continue
		}
		year, week := day.ISOWeek()
		key := weekKey{year: year, week: week}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], summary)
	}

	for _, key := range order {
		var sb strings.Builder
		for _, summary := range grouped[key] {
			sb.WriteString(fmt.Sprintf("• **%s** - Main: %d, Bench: %d\n", summary.Raid.Label(), summary.MainCount, summary.BenchCount))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Week %d, %d", key.week, key.year),
			Value:  sb.String(),
			Inline: false,
		})
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Next %d week(s)", weeks),
	}

	return embed
}

// OverviewEmbed renders guild-wide totals
func OverviewEmbed(stats *roster.OverviewStats) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📊 Guild Overview",
		Color: DefaultColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Players", Value: fmt.Sprintf("%d", stats.Players), Inline: true},
			{Name: "Total Raids", Value: fmt.Sprintf("%d", stats.Raids), Inline: true},
			{Name: "Total Assignments", Value: fmt.Sprintf("%d", stats.Assignments), Inline: true},
			{Name: "Total Characters", Value: fmt.Sprintf("%d", stats.Characters), Inline: true},
			{Name: "Open Swap Requests", Value: fmt.Sprintf("%d", stats.OpenSwaps), Inline: true},
		},
	}
}

// SwapRequestEmbed renders one swap request. Title and color follow the
// request's status so the same embed works for the whole lifecycle.
func SwapRequestEmbed(view *swap.RequestView) *discordgo.MessageEmbed {
	var title string
	var color int

	switch view.Request.Status {
	case entities.SwapStatusPending:
		title = "🔄 New Swap Request"
		color = PendingColor
	case entities.SwapStatusAccepted:
		title = "✅ Swap Request Accepted"
		color = SuccessColor
	case entities.SwapStatusApproved:
		title = "✅ Swap Request Approved"
		color = SuccessColor
	case entities.SwapStatusDenied:
		title = "❌ Swap Request Denied"
		color = ErrorColor
	case entities.SwapStatusCancelled:
		title = "🚫 Swap Request Cancelled"
		color = ErrorColor
	case entities.SwapStatusExpired:
		title = "⏰ Swap Request Expired"
		color = ErrorColor
	default:
		title = "🔄 Swap Request"
		color = DefaultColor
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Request ID", Value: fmt.Sprintf("#%d", view.Request.ID), Inline: true},
			{Name: "Raid Date", Value: view.Raid.Date, Inline: true},
			{Name: "Status", Value: strings.ToUpper(view.Request.Status.String()), Inline: true},
			{Name: "Requesting Player", Value: view.Requester.Name, Inline: true},
		},
	}

	if view.Acceptor != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Accepting Player",
			Value:  view.Acceptor.Name,
			Inline: true,
		})
	}

	if view.Request.Reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Reason",
			Value:  view.Request.Reason,
			Inline: false,
		})
	}

	if view.Request.ResolutionNote != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Resolution Note",
			Value:  view.Request.ResolutionNote,
			Inline: false,
		})
	}

	if view.Request.Status == entities.SwapStatusPending {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Bench players can accept with /raid swap accept",
		}
	}

	return embed
}

// swapListLimit caps swap list embeds below Discord's 25-field limit
const swapListLimit = 10

// SwapListEmbed renders a set of swap requests, one field per request
func SwapListEmbed(title string, views []*swap.RequestView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  DefaultColor,
		Fields: make([]*discordgo.MessageEmbedField, 0),
	}

	shown := views
	if len(shown) > swapListLimit {
		shown = shown[:swapListLimit]
	}

	for _, view := range shown {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("**Player:** %s\n", view.Requester.Name))
		sb.WriteString(fmt.Sprintf("**Raid:** %s\n", view.Raid.Date))
		sb.WriteString(fmt.Sprintf("**Status:** %s\n", view.Request.Status))
		if view.Request.Reason != "" {
			sb.WriteString(fmt.Sprintf("**Reason:** %s\n", view.Request.Reason))
		}
		if view.Acceptor != nil {
			sb.WriteString(fmt.Sprintf("**Accepted by:** %s\n", view.Acceptor.Name))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Request #%d", view.Request.ID),
			Value:  sb.String(),
			Inline: false,
		})
	}

	if len(views) > swapListLimit {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Showing %d of %d requests", swapListLimit, len(views)),
		}
	}

	return embed
}

func playerName(players map[string]*entities.Player, playerID string) string {
	if player, ok := players[playerID]; ok {
		return player.Name
	}
	return "Unknown"
}
