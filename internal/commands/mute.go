package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"go-modkeeper/internal/ledger"
)

const mutedRoleName = "Muted"

func (h *Handler) handleMute(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionManageRoles) {
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

	roleID, err := h.ensureMutedRole(s, i.GuildID)
	if err != nil {
		return fmt.Errorf("failed to prepare muted role: %w", err)
	}

	if err := s.GuildMemberRoleAdd(i.GuildID, user.ID, roleID); err != nil {
		return fmt.Errorf("failed to mute: %w", err)
	}

	id, err := h.ledger.Record(i.GuildID, ledger.ActionMute, user.ID, reason, i.Member.User.ID)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "User Muted",
		Description: fmt.Sprintf("<@%s> muted.\nReason: %s", user.ID, reason),
		Color:       0xA84300,
	}
	h.notify.ActionRecorded(i.GuildID, string(ledger.ActionMute), user.ID, i.Member.User.ID, reason, id)
	return respondEmbed(s, i, embed, false)
}

// ensureMutedRole finds the guild's Muted role, creating it and denying
// send/speak on every channel when absent.
func (h *Handler) ensureMutedRole(s *discordgo.Session, guildID string) (string, error) {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role.Name == mutedRoleName {
			return role.ID, nil
		}
	}

	role, err := s.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: mutedRoleName})
	if err != nil {
		return "", err
	}

	channels, err := s.GuildChannels(guildID)
	if err != nil {
		return "", err
	}
	deny := int64(discordgo.PermissionSendMessages | discordgo.PermissionVoiceSpeak)
	for _, ch := range channels {
		if err := s.ChannelPermissionSet(ch.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, deny); err != nil {
			h.log.Warn("failed to set muted role overwrite",
				zap.String("channel_id", ch.ID),
				zap.Error(err))
		}
	}

	return role.ID, nil
}
