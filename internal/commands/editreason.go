package commands

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/ledger"
)

func (h *Handler) handleEditReason(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !hasPermission(i, discordgo.PermissionKickMembers) {
		return respondText(s, i, "❌ No permission.", true)
	}

	opts := options(i)
	user := userOption(s, i, opts, "user")
	if user == nil {
		return respondText(s, i, "❌ User not found.", true)
	}

	kind, err := ledger.ParseActionType(stringOption(opts, "action_type"))
	if err != nil {
		return respondText(s, i, "❌ "+err.Error(), true)
	}
	newReason := stringOption(opts, "new_reason")
	number := int(intOption(opts, "number"))

	old, err := h.ledger.Amend(i.GuildID, kind, user.ID, number, newReason)
	if errors.Is(err, ledger.ErrActionNotFound) {
		return respondText(s, i, "❌ Action not found.", true)
	}
	if err != nil {
		return err
	}

	return respondText(s, i, fmt.Sprintf("✅ Reason updated from: %s", old), true)
}
