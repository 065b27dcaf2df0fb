package lockdown

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const restoreTimeout = 2 * time.Minute

// scheduleRestore arms an unattended restore. Timers are never cancelled by a
// manual unlock; a late firing observes an empty snapshot list and drops out
// through ErrNoSnapshot.
func (m *Manager) scheduleRestore(guildID string, delay time.Duration) {
	timer := time.AfterFunc(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()

		_, err := m.Restore(ctx, guildID)
		switch {
		case errors.Is(err, ErrNoSnapshot):
			m.log.Debug("auto-restore: nothing pending", zap.String("guild_id", guildID))
		case err != nil:
			m.log.Error("auto-restore failed", zap.String("guild_id", guildID), zap.Error(err))
		}
	})

	m.mu.Lock()
	m.timers = append(m.timers, timer)
	m.mu.Unlock()
}

// ResumeTimers re-arms auto-restores for snapshots persisted with a nonzero
// unlock_at, so timed lockdowns survive a process restart. Past-due guilds
// restore on a minimal delay. Arming once per qualifying snapshot is safe:
// the restore path is idempotent.
func (m *Manager) ResumeTimers() error {
	doc := snapshotsDoc{}
	err := m.store.WithLock(lockdownsKey, func() error {
		return m.store.Load(lockdownsKey, &doc)
	})
	if err != nil {
		return err
	}

	now := m.now().Unix()
	for guildID, snapshots := range doc {
		for _, snap := range snapshots {
			if snap.UnlockAt == 0 {
				continue
			}
			delay := time.Duration(snap.UnlockAt-now) * time.Second
			if delay < time.Second {
				delay = time.Second
			}
			m.log.Info("resuming auto-restore timer",
				zap.String("guild_id", guildID),
				zap.Int64("unlock_at", snap.UnlockAt))
			m.scheduleRestore(guildID, delay)
		}
	}
	return nil
}

// Close stops all pending timers. Lockdowns with a persisted unlock_at are
// picked back up by ResumeTimers on the next start.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.timers {
		t.Stop()
	}
	m.timers = nil
}
