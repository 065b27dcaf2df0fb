package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"

	"go-modkeeper/internal/ledger"
	"go-modkeeper/internal/lockdown"
)

// GetAllCommands returns all application commands.
func GetAllCommands() []*discordgo.ApplicationCommand {
	levelChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 3)
	for _, l := range lockdown.Levels() {
		levelChoices = append(levelChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  strings.ToUpper(string(l)),
			Value: string(l),
		})
	}

	actionTypeChoices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "warn", Value: string(ledger.ActionWarn)},
		{Name: "kick", Value: string(ledger.ActionKick)},
		{Name: "ban", Value: string(ledger.ActionBan)},
		{Name: "mute", Value: string(ledger.ActionMute)},
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency",
		},
		{
			Name:        "warn",
			Description: "Warn a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to warn",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for warning",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "warnings",
			Description: "List a user's warnings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to look up",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
			},
		},
		{
			Name:        "kick",
			Description: "Kick a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to kick",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for kick",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "ban",
			Description: "Ban a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to ban",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for ban",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "mute",
			Description: "Mute a user",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "User to mute",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "reason",
					Description: "Reason for mute",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "purge",
			Description: "Purge messages in this channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "amount",
					Description: "Number of messages to delete",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    true,
				},
			},
		},
		{
			Name:        "editreason",
			Description: "Edit the reason on a recorded mod action",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "user",
					Description: "Target user",
					Type:        discordgo.ApplicationCommandOptionUser,
					Required:    true,
				},
				{
					Name:        "action_type",
					Description: "Action type",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices:     actionTypeChoices,
				},
				{
					Name:        "new_reason",
					Description: "New reason",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
				},
				{
					Name:        "number",
					Description: "Action ID number (defaults to the first record)",
					Type:        discordgo.ApplicationCommandOptionInteger,
					Required:    false,
				},
			},
		},
		{
			Name:        "lockdown",
			Description: "Lock the server",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "level",
					Description: "Level of lockdown",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    true,
					Choices:     levelChoices,
				},
				{
					Name:        "duration",
					Description: "Duration like 1h30m",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
				{
					Name:        "reason",
					Description: "Reason for lockdown",
					Type:        discordgo.ApplicationCommandOptionString,
					Required:    false,
				},
			},
		},
		{
			Name:        "unlock",
			Description: "Unlock the server",
		},
	}
}
