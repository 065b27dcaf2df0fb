// Package commands registers the moderation slash commands and routes
// interactions to the action ledger and lockdown manager. Authorization is
// checked here, at the command boundary, so the core packages receive only
// validated requests.
package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"go-modkeeper/internal/bot"
	"go-modkeeper/internal/ledger"
	"go-modkeeper/internal/lockdown"
	"go-modkeeper/internal/notifier"
)

// Handler routes slash command interactions.
type Handler struct {
	ledger    *ledger.Ledger
	lockdowns *lockdown.Manager
	notify    *notifier.Notifier
	log       *zap.Logger
}

// Register wires the handler into the session and registers all commands.
// The session must already be connected.
func Register(session *bot.Session, led *ledger.Ledger, lockdowns *lockdown.Manager, notify *notifier.Notifier, log *zap.Logger) (*Handler, error) {
	h := &Handler{
		ledger:    led,
		lockdowns: lockdowns,
		notify:    notify,
		log:       log,
	}

	session.AddHandler(h.handleInteraction)

	cmds := GetAllCommands()
	if err := session.RegisterCommands(cmds); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}

	log.Info("command handler initialized", zap.Int("commands", len(cmds)))
	return h, nil
}

func (h *Handler) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()

	var err error
	switch data.Name {
	case "ping":
		err = h.handlePing(s, i)
	case "warn":
		err = h.handleWarn(s, i)
	case "warnings":
		err = h.handleWarnings(s, i)
	case "kick":
		err = h.handleKick(s, i)
	case "ban":
		err = h.handleBan(s, i)
	case "mute":
		err = h.handleMute(s, i)
	case "purge":
		err = h.handlePurge(s, i)
	case "editreason":
		err = h.handleEditReason(s, i)
	case "lockdown":
		err = h.handleLockdown(s, i)
	case "unlock":
		err = h.handleUnlock(s, i)
	default:
		err = fmt.Errorf("unknown command: %s", data.Name)
	}

	if err != nil {
		h.log.Error("command failed", zap.String("command", data.Name), zap.Error(err))
		respondError(s, i, err.Error())
	}
}

// hasPermission checks the invoking member's resolved permission bits.
func hasPermission(i *discordgo.InteractionCreate, bit int64) bool {
	return i.Member != nil && i.Member.Permissions&bit != 0
}

// options flattens the command's options by name.
func options(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	data := i.ApplicationCommandData()
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		out[opt.Name] = opt
	}
	return out
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func intOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	if opt, ok := opts[name]; ok {
		return opt.IntValue()
	}
	return 0
}

func userOption(s *discordgo.Session, i *discordgo.InteractionCreate, opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.User {
	if opt, ok := opts[name]; ok {
		return opt.UserValue(s)
	}
	return nil
}
