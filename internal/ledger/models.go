package ledger

import (
	"errors"
	"fmt"
)

// DefaultReason is stored whenever a moderator gives no reason; reasons are
// never empty in the persisted documents.
const DefaultReason = "No reason provided"

// ErrActionNotFound is returned by Amend when the (guild, type, user) bucket
// has no records.
var ErrActionNotFound = errors.New("moderation action not found")

// ActionType names one disciplinary act. Warn records live in their own
// storage document but share this enum with kick/ban/mute.
type ActionType string

const (
	ActionWarn ActionType = "warn"
	ActionKick ActionType = "kick"
	ActionBan  ActionType = "ban"
	ActionMute ActionType = "mute"
)

// ParseActionType validates user-supplied action type text.
func ParseActionType(s string) (ActionType, error) {
	switch ActionType(s) {
	case ActionWarn, ActionKick, ActionBan, ActionMute:
		return ActionType(s), nil
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

// ModerationAction is one recorded disciplinary act against a user.
//
// ID is unique only within its (guild, action type, user) bucket, assigned as
// max(existing)+1 starting at 1, and never reused. EditedAt is zero until the
// record's reason has been amended at least once.
type ModerationAction struct {
	ID          int    `json:"id"`
	Reason      string `json:"reason"`
	ModeratorID string `json:"moderator_id"`
	CreatedAt   int64  `json:"timestamp"`
	EditedAt    int64  `json:"edited_at,omitempty"`
}
