package store

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingKeyIsEmpty(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	doc := map[string]string{}
	require.NoError(t, s.Load("nothing", &doc))
	assert.Empty(t, doc)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	in := map[string][]int{"g1": {1, 2, 3}}
	require.NoError(t, s.Save("actions", in))

	out := map[string][]int{}
	require.NoError(t, s.Load("actions", &out))
	assert.Equal(t, in, out)
}

func TestCorruptDocumentReadsAsEmpty(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "actions.json"), []byte("{not json"), 0o644))

	doc := map[string]string{}
	require.NoError(t, s.Load("actions", &doc))
	assert.Empty(t, doc)
}

func TestSaveReplacesWholeDocument(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save("doc", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, s.Save("doc", map[string]string{"a": "9"}))

	out := map[string]string{}
	require.NoError(t, s.Load("doc", &out))
	assert.Equal(t, map[string]string{"a": "9"}, out)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("doc", map[string]int{"x": 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestWithLockSerializesWritersPerKey(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.Save("counter", map[string]int{"n": 0}))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithLock("counter", func() error {
				doc := map[string]int{}
				if err := s.Load("counter", &doc); err != nil {
					return err
				}
				doc["n"]++
				return s.Save("counter", doc)
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	out := map[string]int{}
	require.NoError(t, s.Load("counter", &out))
	assert.Equal(t, 25, out["n"], "no updates lost under concurrent writers")
}

func TestDifferentKeysAreIndependent(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		key := "guild-" + strconv.Itoa(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, s.WithLock(key, func() error {
				return s.Save(key, map[string]string{"k": key})
			}))
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		key := "guild-" + strconv.Itoa(i)
		out := map[string]string{}
		require.NoError(t, s.Load(key, &out))
		assert.Equal(t, key, out["k"])
	}
}
