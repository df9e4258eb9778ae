package discord

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// ChannelNotifier posts swap lifecycle embeds to the configured swap
// channel. An empty channel ID disables posting entirely; send failures
// are logged, never returned.
type ChannelNotifier struct {
	channelID    string
	officerRoles []string
}

// NewChannelNotifier creates a notifier for the given channel. channelID
// may be empty, which turns every post into a no-op.
func NewChannelNotifier(channelID string, officerRoles []string) *ChannelNotifier {
	return &ChannelNotifier{
		channelID:    channelID,
		officerRoles: officerRoles,
	}
}

// SwapRequested announces a newly created request
func (n *ChannelNotifier) SwapRequested(s *discordgo.Session, embed *discordgo.MessageEmbed) {
	if n == nil || n.channelID == "" {
		return
	}

	if _, err := s.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Printf("Failed to send swap notification: %v", err)
	}
}

// ApprovalNeeded announces an accepted request awaiting an officer,
// mentioning the first configured officer role that exists in the guild
func (n *ChannelNotifier) ApprovalNeeded(s *discordgo.Session, guildID string, embed *discordgo.MessageEmbed) {
	if n == nil || n.channelID == "" {
		return
	}

	content := "Approval needed!"
	if mention := n.officerMention(s, guildID); mention != "" {
		content = mention + " Approval needed!"
	}

	_, err := s.ChannelMessageSendComplex(n.channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Printf("Failed to send swap notification: %v", err)
	}
}

func (n *ChannelNotifier) officerMention(s *discordgo.Session, guildID string) string {
	roles, err := guildRoles(s, guildID)
	if err != nil {
		log.Printf("Error loading roles for guild %s: %v", guildID, err)
		return ""
	}

	for _, wanted := range n.officerRoles {
		for _, role := range roles {
			if role.Name == wanted {
				return role.Mention()
			}
		}
	}

	return ""
}
