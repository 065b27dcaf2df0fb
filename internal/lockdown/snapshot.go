package lockdown

import (
	"errors"
	"fmt"

	"go-modkeeper/internal/perms"
)

// ErrNoSnapshot is returned by Restore when the guild has nothing pending.
// It is informational: a timer firing after a manual unlock lands here.
var ErrNoSnapshot = errors.New("no lockdown snapshot for guild")

// Level labels the moderator's intent when locking down. It shapes the
// notice shown to the server, not the mechanics of the sweep.
type Level string

const (
	LevelMild Level = "mild"
	LevelSemi Level = "semi"
	LevelFull Level = "full"
)

// Levels lists the accepted lockdown levels in escalation order.
func Levels() []Level {
	return []Level{LevelMild, LevelSemi, LevelFull}
}

// ParseLevel validates user-supplied level text.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case LevelMild, LevelSemi, LevelFull:
		return Level(s), nil
	}
	return "", fmt.Errorf("unknown lockdown level %q", s)
}

// Snapshot captures the prior everyone-overwrite of every channel a lockdown
// touched, taken immediately before the restrictive bits were written. A
// guild accumulates a list of snapshots when lockdown is invoked again before
// an unlock; Restore replays the whole list in order.
type Snapshot struct {
	Level    Level                      `json:"level"`
	Reason   string                     `json:"reason"`
	TakenAt  int64                      `json:"timestamp"`
	UnlockAt int64                      `json:"unlock_at"`
	Channels map[string]perms.Overwrite `json:"channels"`
}

// ApplyResult reports one lockdown sweep. FailedCount counts channels whose
// permission read or write failed; those channels are not in Affected and are
// absent from the stored snapshot.
type ApplyResult struct {
	Affected    []string
	FailedCount int
	UnlockAt    int64
}

// RestoreSummary reports one restore sweep across all accumulated snapshots.
type RestoreSummary struct {
	Restored int
	Failed   int
}
