package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

func (h *Handler) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	embed := &discordgo.MessageEmbed{
		Title: "🏓 Pong!",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "WebSocket Latency",
				Value:  fmt.Sprintf("%d ms", s.HeartbeatLatency().Milliseconds()),
				Inline: true,
			},
		},
	}
	return respondEmbed(s, i, embed, true)
}
