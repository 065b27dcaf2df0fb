// Package notifier publishes moderation and lockdown notices to the mod-log
// and general channels and journals them to the audit log. Publishing is
// fire-and-forget: delivery failures are logged and never surface to the
// operation that produced the notice.
package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"go-modkeeper/internal/audit"
	"go-modkeeper/internal/lockdown"
	"go-modkeeper/pkg/duration"
)

// Embed colors per notice kind.
const (
	colorRed        = 0xED4245
	colorOrange     = 0xE67E22
	colorDarkRed    = 0x992D22
	colorDarkOrange = 0xA84300
	colorGreen      = 0x57F287
)

// Notifier is the Notification Sink. journal may be nil.
type Notifier struct {
	session   *discordgo.Session
	journal   *audit.Journal
	modLogID  string
	generalID string
	log       *zap.Logger
}

func New(session *discordgo.Session, journal *audit.Journal, modLogChannelID, generalChannelID string, log *zap.Logger) *Notifier {
	return &Notifier{
		session:   session,
		journal:   journal,
		modLogID:  modLogChannelID,
		generalID: generalChannelID,
		log:       log,
	}
}

// ActionRecorded publishes a mod-log notice for a recorded disciplinary
// action.
func (n *Notifier) ActionRecorded(guildID, kind, targetID, moderatorID, reason string, actionID int) {
	title := fmt.Sprintf("User %s", pastTense(kind))
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Color:       actionColor(kind),
		Description: fmt.Sprintf("<@%s> %s.\nReason: %s", targetID, strings.ToLower(pastTense(kind)), reason),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", moderatorID), Inline: true},
			{Name: "Case ID", Value: fmt.Sprintf("#%d", actionID), Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	n.sendEmbed(n.modLogID, embed)
	n.journalEntry(&audit.Entry{
		GuildID:  guildID,
		Kind:     kind,
		ActorID:  moderatorID,
		TargetID: targetID,
		Summary:  fmt.Sprintf("%s #%d: %s", kind, actionID, reason),
	})
}

// LockdownApplied announces a lockdown to the general channel and the
// mod-log. Implements lockdown.Announcer.
func (n *Notifier) LockdownApplied(guildID string, level lockdown.Level, reason string, unlockAt int64, affected, failed int) {
	desc := fmt.Sprintf("Reason: %s\n\nThe server is currently under a temporary lockdown. Staff will investigate and notify when normal operation resumes.", reason)
	if unlockAt > 0 {
		desc += fmt.Sprintf("\nAutomatic unlock: <t:%d:F>", unlockAt)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚨 Server Lockdown (%s) 🚨", strings.ToUpper(string(level))),
		Description: desc,
		Color:       colorRed,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	n.sendEmbed(n.generalID, embed)
	n.sendEmbed(n.modLogID, embed)

	summary := fmt.Sprintf("lockdown (%s): %d channels locked, %d failed", level, affected, failed)
	if unlockAt > 0 {
		summary += fmt.Sprintf(", auto-unlock in %s", duration.Format(unlockAt-time.Now().Unix()))
	}
	n.journalEntry(&audit.Entry{GuildID: guildID, Kind: "lockdown", Summary: summary})
}

// LockdownLifted reports a restore sweep to the mod-log. Implements
// lockdown.Announcer.
func (n *Notifier) LockdownLifted(guildID string, restored, failed int) {
	embed := &discordgo.MessageEmbed{
		Title:       "🔓 Server Unlocked",
		Description: fmt.Sprintf("Restored %d channels; %d failed.", restored, failed),
		Color:       colorGreen,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	n.sendEmbed(n.generalID, embed)
	n.sendEmbed(n.modLogID, embed)
	n.journalEntry(&audit.Entry{
		GuildID: guildID,
		Kind:    "unlock",
		Summary: fmt.Sprintf("unlock: %d restored, %d failed", restored, failed),
	})
}

// ModLog publishes an arbitrary embed to the mod-log channel and journals it.
func (n *Notifier) ModLog(guildID, kind string, embed *discordgo.MessageEmbed) {
	n.sendEmbed(n.modLogID, embed)
	n.journalEntry(&audit.Entry{GuildID: guildID, Kind: kind, Summary: embed.Title})
}

func (n *Notifier) sendEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if n.session == nil || channelID == "" {
		return
	}
	go func() {
		if _, err := n.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
			n.log.Warn("notice delivery failed",
				zap.String("channel_id", channelID),
				zap.String("title", embed.Title),
				zap.Error(err))
		}
	}()
}

func (n *Notifier) journalEntry(e *audit.Entry) {
	if n.journal == nil {
		return
	}
	if err := n.journal.Append(e); err != nil {
		n.log.Warn("audit journal write failed",
			zap.String("guild_id", e.GuildID),
			zap.String("kind", e.Kind),
			zap.Error(err))
	}
}

func pastTense(kind string) string {
	switch kind {
	case "warn":
		return "Warned"
	case "kick":
		return "Kicked"
	case "ban":
		return "Banned"
	case "mute":
		return "Muted"
	default:
		return kind
	}
}

func actionColor(kind string) int {
	switch kind {
	case "warn":
		return colorOrange
	case "kick":
		return colorRed
	case "ban":
		return colorDarkRed
	case "mute":
		return colorDarkOrange
	default:
		return colorOrange
	}
}
