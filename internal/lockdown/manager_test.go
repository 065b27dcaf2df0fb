package lockdown

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-modkeeper/internal/perms"
	"go-modkeeper/internal/store"
)

// fakeBackend is an in-memory Permission Backend with per-channel failure
// injection.
type fakeBackend struct {
	mu         sync.Mutex
	channels   []string
	overwrites map[string]perms.Overwrite
	failReads  map[string]bool
	failWrites map[string]bool
}

func newFakeBackend(channels ...string) *fakeBackend {
	return &fakeBackend{
		channels:   channels,
		overwrites: make(map[string]perms.Overwrite),
		failReads:  make(map[string]bool),
		failWrites: make(map[string]bool),
	}
}

func (f *fakeBackend) Channels(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.channels...), nil
}

func (f *fakeBackend) GetOverwrite(_ context.Context, _, channelID, _ string) (perms.Overwrite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReads[channelID] {
		return perms.Overwrite{}, errors.New("injected read failure")
	}
	return f.overwrites[channelID], nil
}

func (f *fakeBackend) SetOverwrite(_ context.Context, _, channelID, _ string, ow perms.Overwrite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites[channelID] {
		return errors.New("injected write failure")
	}
	f.overwrites[channelID] = ow
	return nil
}

func (f *fakeBackend) get(channelID string) perms.Overwrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overwrites[channelID]
}

func (f *fakeBackend) set(channelID string, ow perms.Overwrite) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overwrites[channelID] = ow
}

type recordingAnnouncer struct {
	mu      sync.Mutex
	applied int
	lifted  int
}

func (r *recordingAnnouncer) LockdownApplied(string, Level, string, int64, int, int) {
	r.mu.Lock()
	r.applied++
	r.mu.Unlock()
}

func (r *recordingAnnouncer) LockdownLifted(string, int, int) {
	r.mu.Lock()
	r.lifted++
	r.mu.Unlock()
}

const (
	guild   = "guild-1"
	staffCh = "chan-staff"
	general = "chan-general"
	regular = "chan-c"
)

func newTestManager(t *testing.T, backend perms.Backend) *Manager {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	m := NewManager(st, backend, nil, []string{staffCh}, general, zap.NewNop())
	t.Cleanup(m.Close)
	return m
}

func TestApplySkipsStaffAndGeneralChannels(t *testing.T) {
	backend := newFakeBackend(staffCh, general, regular)
	backend.set(regular, perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)})
	m := newTestManager(t, backend)

	result, err := m.Apply(context.Background(), guild, LevelFull, "raid", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{regular}, result.Affected)
	assert.Zero(t, result.FailedCount)
	assert.Zero(t, result.UnlockAt)

	locked := backend.get(regular)
	assert.Zero(t, locked.Allow&int64(discordgo.PermissionSendMessages), "send allow cleared")
	assert.NotZero(t, locked.Deny&int64(discordgo.PermissionSendMessages), "send denied")
	assert.NotZero(t, locked.Deny&int64(discordgo.PermissionAddReactions), "reactions denied")

	assert.Equal(t, perms.Overwrite{}, backend.get(staffCh), "staff channel untouched")
	assert.Equal(t, perms.Overwrite{}, backend.get(general), "general channel untouched")
}

func TestApplyPreservesUnrelatedBits(t *testing.T) {
	backend := newFakeBackend(regular)
	prior := perms.Overwrite{
		Allow: int64(discordgo.PermissionSendMessages | discordgo.PermissionAttachFiles),
		Deny:  int64(discordgo.PermissionMentionEveryone),
	}
	backend.set(regular, prior)
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelMild, "", 0)
	require.NoError(t, err)

	locked := backend.get(regular)
	assert.NotZero(t, locked.Allow&int64(discordgo.PermissionAttachFiles), "unrelated allow kept")
	assert.NotZero(t, locked.Deny&int64(discordgo.PermissionMentionEveryone), "unrelated deny kept")
}

func TestApplyThenRestoreRoundTripsExactly(t *testing.T) {
	backend := newFakeBackend("c1", "c2", "c3")
	priors := map[string]perms.Overwrite{
		"c1": {Allow: int64(discordgo.PermissionSendMessages)},
		"c2": {Deny: int64(discordgo.PermissionAddReactions)},
		"c3": {},
	}
	for id, ow := range priors {
		backend.set(id, ow)
	}
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelFull, "raid", 0)
	require.NoError(t, err)

	summary, err := m.Restore(context.Background(), guild)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Restored)
	assert.Zero(t, summary.Failed)

	for id, want := range priors {
		assert.Equal(t, want, backend.get(id), "channel %s restored bit-for-bit", id)
	}
}

func TestRestoreWithoutSnapshotReturnsErrNoSnapshot(t *testing.T) {
	m := newTestManager(t, newFakeBackend(regular))

	_, err := m.Restore(context.Background(), guild)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestSecondRestoreReturnsErrNoSnapshot(t *testing.T) {
	backend := newFakeBackend(regular)
	backend.set(regular, perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)})
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelSemi, "", 0)
	require.NoError(t, err)

	_, err = m.Restore(context.Background(), guild)
	require.NoError(t, err)

	_, err = m.Restore(context.Background(), guild)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestApplyWriteFailureDropsChannelFromSnapshot(t *testing.T) {
	backend := newFakeBackend("c1", "c2")
	backend.set("c1", perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)})
	backend.set("c2", perms.Overwrite{Allow: int64(discordgo.PermissionAddReactions)})
	backend.failWrites["c2"] = true
	m := newTestManager(t, backend)

	result, err := m.Apply(context.Background(), guild, LevelFull, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, result.Affected)
	assert.Equal(t, 1, result.FailedCount)

	backend.failWrites["c2"] = false
	summary, err := m.Restore(context.Background(), guild)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Restored, "only the channel that was locked is restorable")
	assert.Equal(t, perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)}, backend.get("c1"))
	assert.Equal(t, perms.Overwrite{Allow: int64(discordgo.PermissionAddReactions)}, backend.get("c2"), "failed channel never mutated")
}

func TestApplyReadFailureCountsAndContinues(t *testing.T) {
	backend := newFakeBackend("c1", "c2")
	backend.failReads["c1"] = true
	m := newTestManager(t, backend)

	result, err := m.Apply(context.Background(), guild, LevelFull, "", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2"}, result.Affected)
	assert.Equal(t, 1, result.FailedCount)
}

func TestReentrantApplyRestoresLatestCapture(t *testing.T) {
	backend := newFakeBackend(regular)
	backend.set(regular, perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)})
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelMild, "first", 0)
	require.NoError(t, err)

	// External actor toggles the channel between the two lockdowns.
	external := perms.Overwrite{Allow: int64(discordgo.PermissionAttachFiles)}
	backend.set(regular, external)

	_, err = m.Apply(context.Background(), guild, LevelFull, "second", 0)
	require.NoError(t, err)

	summary, err := m.Restore(context.Background(), guild)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Restored, "both snapshots processed")
	assert.Equal(t, external, backend.get(regular), "second capture wins")
}

func TestRestoreFailureStillClearsSnapshots(t *testing.T) {
	backend := newFakeBackend("c1", "c2")
	backend.set("c1", perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)})
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelFull, "", 0)
	require.NoError(t, err)

	backend.failWrites["c1"] = true
	summary, err := m.Restore(context.Background(), guild)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Restored)
	assert.Equal(t, 1, summary.Failed)

	// The list is cleared even though one channel failed to restore.
	_, err = m.Restore(context.Background(), guild)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestTimedApplyAutoRestores(t *testing.T) {
	backend := newFakeBackend(regular)
	prior := perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)}
	backend.set(regular, prior)
	m := newTestManager(t, backend)

	result, err := m.Apply(context.Background(), guild, LevelFull, "raid", 1)
	require.NoError(t, err)
	assert.NotZero(t, result.UnlockAt)
	assert.NotEqual(t, prior, backend.get(regular), "locked immediately")

	require.Eventually(t, func() bool {
		return backend.get(regular) == prior
	}, 5*time.Second, 20*time.Millisecond, "auto-restore fires after the duration")

	_, err = m.Restore(context.Background(), guild)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestManualRestoreBeforeTimerIsSafe(t *testing.T) {
	backend := newFakeBackend(regular)
	prior := perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)}
	backend.set(regular, prior)
	m := newTestManager(t, backend)

	_, err := m.Apply(context.Background(), guild, LevelFull, "", 1)
	require.NoError(t, err)

	// Manual unlock before the timer; the timer is not cancelled and must
	// come up empty without disturbing state.
	_, err = m.Restore(context.Background(), guild)
	require.NoError(t, err)
	assert.Equal(t, prior, backend.get(regular))

	time.Sleep(1500 * time.Millisecond)
	assert.Equal(t, prior, backend.get(regular), "late timer is a no-op")
}

func TestResumeTimersRestoresAfterRestart(t *testing.T) {
	backend := newFakeBackend(regular)
	prior := perms.Overwrite{Allow: int64(discordgo.PermissionSendMessages)}
	backend.set(regular, prior)

	dir := t.TempDir()
	st, err := store.Open(dir)
	require.NoError(t, err)

	m1 := NewManager(st, backend, nil, []string{staffCh}, general, zap.NewNop())
	_, err = m1.Apply(context.Background(), guild, LevelFull, "raid", 1)
	require.NoError(t, err)
	m1.Close() // simulated shutdown: pending timer lost

	st2, err := store.Open(dir)
	require.NoError(t, err)
	m2 := NewManager(st2, backend, nil, []string{staffCh}, general, zap.NewNop())
	t.Cleanup(m2.Close)
	require.NoError(t, m2.ResumeTimers())

	require.Eventually(t, func() bool {
		return backend.get(regular) == prior
	}, 5*time.Second, 20*time.Millisecond, "resumed timer restores the guild")
}

func TestAnnouncerReceivesLifecycleNotices(t *testing.T) {
	backend := newFakeBackend(regular)
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	announcer := &recordingAnnouncer{}
	m := NewManager(st, backend, announcer, []string{staffCh}, general, zap.NewNop())
	t.Cleanup(m.Close)

	_, err = m.Apply(context.Background(), guild, LevelFull, "raid", 0)
	require.NoError(t, err)
	_, err = m.Restore(context.Background(), guild)
	require.NoError(t, err)

	announcer.mu.Lock()
	defer announcer.mu.Unlock()
	assert.Equal(t, 1, announcer.applied)
	assert.Equal(t, 1, announcer.lifted)
}

func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	_, err := ParseLevel("total")
	assert.Error(t, err)
}
