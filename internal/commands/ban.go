package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/ledger"
)

func (h *Handler) handleBan(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionBanMembers) {
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

	if err := s.GuildBanCreateWithReason(i.GuildID, user.ID, reason, 0); err != nil {
		return fmt.Errorf("failed to ban: %w", err)
	}

	id, err := h.ledger.Record(i.GuildID, ledger.ActionBan, user.ID, reason, i.Member.User.ID)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "User Banned",
		Description: fmt.Sprintf("<@%s> banned.\nReason: %s", user.ID, reason),
		Color:       0x992D22,
	}
	h.notify.ActionRecorded(i.GuildID, string(ledger.ActionBan), user.ID, i.Member.User.ID, reason, id)
	return respondEmbed(s, i, embed, false)
}
