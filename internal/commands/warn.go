package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/ledger"
)

func (h *Handler) handleWarn(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		return respondText(s, i, "❌ No permission.", true)
	}

	opts := options(i)
	user := userOption(s, i, opts, "user")
	if user == nil {
		return respondText(s, i, "❌ User not found.", true)
	}
	reason := stringOption(opts, "reason")
	if reason == "" {
		reason = ledger.DefaultReason
	}

	id, err := h.ledger.Record(i.GuildID, ledger.ActionWarn, user.ID, reason, i.Member.User.ID)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "User Warned",
		Description: fmt.Sprintf("<@%s> warned.\nReason: %s", user.ID, reason),
		Color:       0xE67E22,
	}
	h.notify.ActionRecorded(i.GuildID, string(ledger.ActionWarn), user.ID, i.Member.User.ID, reason, id)
	return respondEmbed(s, i, embed, false)
}
