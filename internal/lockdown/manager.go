// Package lockdown snapshots, applies, and restores channel permission state
// for a guild. Apply captures each in-scope channel's everyone-overwrite,
// writes a restrictive override, and persists the capture; Restore replays
// every accumulated capture and clears them. Both sweeps are best-effort per
// channel: one failing Permission Backend call never aborts the rest.
package lockdown

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"go-modkeeper/internal/perms"
	"go-modkeeper/internal/store"
)

const lockdownsKey = "lockdowns"

// Restrictive bits written during a lockdown. Everything else on the
// overwrite is preserved untouched.
const lockedBits = int64(discordgo.PermissionSendMessages | discordgo.PermissionAddReactions)

// snapshotsDoc maps guild -> accumulated snapshots in apply order.
type snapshotsDoc map[string][]*Snapshot

// Announcer receives lockdown lifecycle notices. Implementations must be
// fire-and-forget; the manager never inspects their outcome.
type Announcer interface {
	LockdownApplied(guildID string, level Level, reason string, unlockAt int64, affected, failed int)
	LockdownLifted(guildID string, restored, failed int)
}

// Manager owns the lockdowns document and the auto-restore timers.
type Manager struct {
	store    *store.Store
	backend  perms.Backend
	announce Announcer
	log      *zap.Logger

	staff     map[string]struct{}
	generalID string

	now func() time.Time

	mu     sync.Mutex
	guilds map[string]*sync.Mutex
	timers []*time.Timer
}

// NewManager builds a manager. staffChannelIDs and generalChannelID define
// the channels every sweep leaves operable. announce may be nil.
func NewManager(st *store.Store, backend perms.Backend, announce Announcer, staffChannelIDs []string, generalChannelID string, log *zap.Logger) *Manager {
	staff := make(map[string]struct{}, len(staffChannelIDs))
	for _, id := range staffChannelIDs {
		staff[id] = struct{}{}
	}

	return &Manager{
		store:     st,
		backend:   backend,
		announce:  announce,
		log:       log,
		staff:     staff,
		generalID: generalChannelID,
		now:       time.Now,
		guilds:    make(map[string]*sync.Mutex),
	}
}

// Apply locks down every in-scope channel of the guild: the prior
// everyone-overwrite is captured into a new snapshot, then send-messages and
// add-reactions are denied on top of it. Per-channel failures are counted and
// skipped. The snapshot is persisted before Apply returns; with a positive
// durationSeconds an unattended restore is scheduled as well.
//
// Applying while already locked is permitted and appends another snapshot.
func (m *Manager) Apply(ctx context.Context, guildID string, level Level, reason string, durationSeconds int64) (*ApplyResult, error) {
	if reason == "" {
		reason = "No reason provided"
	}

	lock := m.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	channels, err := m.backend.Channels(ctx, guildID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Level:    level,
		Reason:   reason,
		TakenAt:  m.now().Unix(),
		Channels: make(map[string]perms.Overwrite),
	}

	result := &ApplyResult{}
	for _, channelID := range channels {
		if !m.inScope(channelID) {
			continue
		}

		prior, err := m.backend.GetOverwrite(ctx, guildID, channelID, guildID)
		if err != nil {
			m.log.Warn("lockdown: overwrite read failed",
				zap.String("guild_id", guildID),
				zap.String("channel_id", channelID),
				zap.Error(err))
			result.FailedCount++
			continue
		}

		locked := prior
		locked.Deny |= lockedBits
		locked.Allow &^= lockedBits

		if err := m.backend.SetOverwrite(ctx, guildID, channelID, guildID, locked); err != nil {
			m.log.Warn("lockdown: overwrite write failed",
				zap.String("guild_id", guildID),
				zap.String("channel_id", channelID),
				zap.Error(err))
			result.FailedCount++
			continue
		}

		// Only channels that actually changed become restorable.
		snap.Channels[channelID] = prior
		result.Affected = append(result.Affected, channelID)
	}

	if durationSeconds > 0 {
		snap.UnlockAt = m.now().Unix() + durationSeconds
		result.UnlockAt = snap.UnlockAt
	}

	err = m.store.WithLock(lockdownsKey, func() error {
		doc := snapshotsDoc{}
		if err := m.store.Load(lockdownsKey, &doc); err != nil {
			return err
		}
		doc[guildID] = append(doc[guildID], snap)
		return m.store.Save(lockdownsKey, doc)
	})
	if err != nil {
		return nil, err
	}

	if durationSeconds > 0 {
		m.scheduleRestore(guildID, time.Duration(durationSeconds)*time.Second)
	}

	m.log.Info("lockdown applied",
		zap.String("guild_id", guildID),
		zap.String("level", string(level)),
		zap.Int("affected", len(result.Affected)),
		zap.Int("failed", result.FailedCount),
		zap.Int64("unlock_at", snap.UnlockAt))

	if m.announce != nil {
		m.announce.LockdownApplied(guildID, level, reason, snap.UnlockAt, len(result.Affected), result.FailedCount)
	}

	return result, nil
}

// Restore replays every accumulated snapshot for the guild in stored order,
// writing each captured overwrite back, then clears the guild's snapshot list
// unconditionally. A channel captured in more than one snapshot ends at its
// most recent capture. Per-channel failures are counted, not fatal; a failed
// channel stays locked and is no longer tracked.
//
// With nothing accumulated, Restore returns ErrNoSnapshot. That makes a
// manual unlock racing a scheduled one harmless: the loser sees an empty
// list.
func (m *Manager) Restore(ctx context.Context, guildID string) (*RestoreSummary, error) {
	lock := m.guildLock(guildID)
	lock.Lock()
	defer lock.Unlock()

	var snapshots []*Snapshot
	err := m.store.WithLock(lockdownsKey, func() error {
		doc := snapshotsDoc{}
		if err := m.store.Load(lockdownsKey, &doc); err != nil {
			return err
		}
		snapshots = doc[guildID]
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, ErrNoSnapshot
	}

	summary := &RestoreSummary{}
	for _, snap := range snapshots {
		for channelID, prior := range snap.Channels {
			if err := m.backend.SetOverwrite(ctx, guildID, channelID, guildID, prior); err != nil {
				m.log.Warn("restore: overwrite write failed",
					zap.String("guild_id", guildID),
					zap.String("channel_id", channelID),
					zap.Error(err))
				summary.Failed++
				continue
			}
			summary.Restored++
		}
	}

	err = m.store.WithLock(lockdownsKey, func() error {
		doc := snapshotsDoc{}
		if err := m.store.Load(lockdownsKey, &doc); err != nil {
			return err
		}
		doc[guildID] = []*Snapshot{}
		return m.store.Save(lockdownsKey, doc)
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("lockdown lifted",
		zap.String("guild_id", guildID),
		zap.Int("restored", summary.Restored),
		zap.Int("failed", summary.Failed))

	if m.announce != nil {
		m.announce.LockdownLifted(guildID, summary.Restored, summary.Failed)
	}

	return summary, nil
}

// inScope reports whether a channel participates in lockdown sweeps. Staff
// channels and the general channel stay operable so moderators and the
// lockdown notice remain reachable.
func (m *Manager) inScope(channelID string) bool {
	if channelID == m.generalID {
		return false
	}
	_, isStaff := m.staff[channelID]
	return !isStaff
}

func (m *Manager) guildLock(guildID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.guilds[guildID]
	if !ok {
		lock = &sync.Mutex{}
		m.guilds[guildID] = lock
	}
	return lock
}
