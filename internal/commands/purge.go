package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const maxPurge = 100

func (h *Handler) handlePurge(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionManageMessages) {
		return respondText(s, i, "❌ No permission.", true)
	}

	amount := int(intOption(options(i), "amount"))
	if amount < 1 {
		return respondText(s, i, "❌ Amount must be at least 1.", true)
	}
	if amount > maxPurge {
		amount = maxPurge
	}

	messages, err := s.ChannelMessages(i.ChannelID, amount, "", "", "")
	if err != nil {
		return fmt.Errorf("failed to purge: %w", err)
	}

	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	if len(ids) > 0 {
		if err := s.ChannelMessagesBulkDelete(i.ChannelID, ids); err != nil {
			return fmt.Errorf("failed to purge: %w", err)
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Messages Purged",
		Description: fmt.Sprintf("Deleted %d messages.", len(ids)),
		Color:       0x57F287,
	}
	h.notify.ModLog(i.GuildID, "purge", embed)
	return respondEmbed(s, i, embed, true)
}
