// Package perms abstracts reading and writing per-channel permission
// overwrites for a guild's default ("everyone") principal.
package perms

import "context"

// Overwrite is one allow/deny bit pair for a principal on a channel. A zero
// Overwrite means the channel carries no explicit bits for the principal.
type Overwrite struct {
	Allow int64 `json:"allow"`
	Deny  int64 `json:"deny"`
}

// Backend is the permission surface the lockdown manager drives. Every call
// may fail independently and may be slow; callers sweep across channels and
// must treat each call's failure as local to that channel.
type Backend interface {
	// Channels lists the guild's channel IDs.
	Channels(ctx context.Context, guildID string) ([]string, error)

	// GetOverwrite reads the current overwrite for principal on a channel.
	// A channel with no overwrite for the principal yields a zero Overwrite.
	GetOverwrite(ctx context.Context, guildID, channelID, principalID string) (Overwrite, error)

	// SetOverwrite replaces the overwrite for principal on a channel.
	SetOverwrite(ctx context.Context, guildID, channelID, principalID string, ow Overwrite) error
}
