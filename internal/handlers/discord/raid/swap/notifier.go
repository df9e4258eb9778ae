package swap

import "github.com/bwmarrin/discordgo"

// Notifier posts swap lifecycle embeds to a configured channel. All methods
// are best-effort; implementations log failures instead of returning them.
type Notifier interface {
	// SwapRequested announces a newly created request
	SwapRequested(s *discordgo.Session, embed *discordgo.MessageEmbed)

	// ApprovalNeeded announces an accepted request awaiting an officer,
	// mentioning the configured officer roles
	ApprovalNeeded(s *discordgo.Session, guildID string, embed *discordgo.MessageEmbed)
}
