// Package bot wraps the Discord gateway session.
package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

type Session struct {
	discord *discordgo.Session
	log     *zap.Logger
}

// New creates a session for the given bot token. Intents cover guilds,
// members, and message content, matching what the moderation commands need.
func New(token string, log *zap.Logger) (*Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Session{discord: dg, log: log}, nil
}

// Discord exposes the underlying discordgo session.
func (s *Session) Discord() *discordgo.Session {
	return s.discord
}

// AddHandler registers a gateway event handler.
func (s *Session) AddHandler(handler interface{}) {
	s.discord.AddHandler(handler)
}

// Open connects to the gateway.
func (s *Session) Open() error {
	if err := s.discord.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}
	if s.discord.State.User != nil {
		s.log.Info("Discord bot connected", zap.String("bot_id", s.discord.State.User.ID))
	}
	return nil
}

// Close closes the gateway connection.
func (s *Session) Close() error {
	if s.discord != nil {
		return s.discord.Close()
	}
	return nil
}

// RegisterCommands registers the application's slash commands globally.
func (s *Session) RegisterCommands(commands []*discordgo.ApplicationCommand) error {
	s.log.Info("registering slash commands", zap.Int("count", len(commands)))

	for _, cmd := range commands {
		if _, err := s.discord.ApplicationCommandCreate(s.discord.State.User.ID, "", cmd); err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
	}
	return nil
}
