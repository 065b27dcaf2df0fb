package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handleWarnings(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		return respondText(s, i, "❌ No permission.", true)
	}

	opts := options(i)
	user := userOption(s, i, opts, "user")
	if user == nil {
		return respondText(s, i, "❌ User not found.", true)
	}

	warns, err := h.ledger.WarningsFor(i.GuildID, user.ID)
	if err != nil {
		return err
	}

	if len(warns) == 0 {
		return respondText(s, i, fmt.Sprintf("<@%s> has no warnings.", user.ID), true)
	}

	var b strings.Builder
	for _, w := range warns {
		fmt.Fprintf(&b, "**#%d** <t:%d:f> by <@%s> — %s", w.ID, w.CreatedAt, w.ModeratorID, w.Reason)
		if w.EditedAt != 0 {
			fmt.Fprintf(&b, " *(edited <t:%d:f>)*", w.EditedAt)
		}
		b.WriteString("\n")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Warnings for %s", user.Username),
		Description: b.String(),
		Color:       0xE67E22,
	}
	return respondEmbed(s, i, embed, true)
}
