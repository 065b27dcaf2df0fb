package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/ledger"
)

func (h *Handler) handleKick(s *discordgo.Session, i *discordgo.InteractionCreate) error {
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

	if err := s.GuildMemberDeleteWithReason(i.GuildID, user.ID, reason); err != nil {
		return fmt.Errorf("failed to kick: %w", err)
	}

	id, err := h.ledger.Record(i.GuildID, ledger.ActionKick, user.ID, reason, i.Member.User.ID)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "User Kicked",
		Description: fmt.Sprintf("<@%s> kicked.\nReason: %s", user.ID, reason),
		Color:       0xED4245,
	}
	h.notify.ActionRecorded(i.GuildID, string(ledger.ActionKick), user.ID, i.Member.User.ID, reason, id)
	return respondEmbed(s, i, embed, false)
}
