package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/lockdown"
	"go-modkeeper/pkg/duration"
)

// applyTimeout bounds the whole channel sweep, not individual REST calls.
const applyTimeout = 2 * time.Minute

func (h *Handler) handleLockdown(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionManageServer) {
		return respondText(s, i, "❌ You lack permission to manage the server.", true)
	}

	opts := options(i)
	level, err := lockdown.ParseLevel(stringOption(opts, "level"))
	if err != nil {
		return respondText(s, i, "❌ "+err.Error(), true)
	}
	reason := stringOption(opts, "reason")
	seconds := duration.Parse(stringOption(opts, "duration"))

	// The sweep can take a while on large guilds; acknowledge first.
	if err := deferEphemeral(s, i); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	result, err := h.lockdowns.Apply(ctx, i.GuildID, level, reason, seconds)
	if err != nil {
		return followupText(s, i, fmt.Sprintf("⚠ Failed to apply lockdown: %v", err))
	}

	msg := fmt.Sprintf("✅ Lockdown applied (%s). Affected channels: %d",
		strings.ToUpper(string(level)), len(result.Affected))
	if result.FailedCount > 0 {
		msg += fmt.Sprintf(" (%d failed)", result.FailedCount)
	}
	if result.UnlockAt > 0 {
		msg += fmt.Sprintf("\nAutomatic unlock in %s.", duration.Format(seconds))
	}
	return followupText(s, i, msg)
}
