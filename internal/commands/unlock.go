package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/lockdown"
)

func (h *Handler) handleUnlock(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionManageServer) {
		return respondText(s, i, "❌ You lack permission to manage the server.", true)
	}

	if err := deferEphemeral(s, i); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	summary, err := h.lockdowns.Restore(ctx, i.GuildID)
	if errors.Is(err, lockdown.ErrNoSnapshot) {
		return followupText(s, i, "ℹ️ No lockdown snapshot found for this server.")
	}
	if err != nil {
		return followupText(s, i, fmt.Sprintf("⚠ Failed to unlock: %v", err))
	}

	return followupText(s, i, fmt.Sprintf("Unlock attempted. Restored ~%d channels; failed ~%d.", summary.Restored, summary.Failed))
}
