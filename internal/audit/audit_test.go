package audit

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestAppendFillsIDAndTimestamp(t *testing.T) {
	j := openTestJournal(t)

	e := &Entry{GuildID: "g1", Kind: "warn", ActorID: "mod1", TargetID: "u1", Summary: "warned"}
	require.NoError(t, j.Append(e))
	assert.NotEmpty(t, e.ID)
	assert.NotZero(t, e.CreatedAt)
}

func TestRecentReturnsNewestFirst(t *testing.T) {
	j := openTestJournal(t)

	for i, kind := range []string{"warn", "kick", "ban"} {
		require.NoError(t, j.Append(&Entry{
			GuildID:   "g1",
			Kind:      kind,
			Summary:   kind + " issued",
			CreatedAt: int64(1000 + i),
		}))
	}
	require.NoError(t, j.Append(&Entry{GuildID: "g2", Kind: "lockdown", Summary: "other guild", CreatedAt: 2000}))

	entries, err := j.Recent("g1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "ban", entries[0].Kind)
	assert.Equal(t, "kick", entries[1].Kind)
}

func TestRecentUnknownGuildIsEmpty(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.Recent("nope", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
