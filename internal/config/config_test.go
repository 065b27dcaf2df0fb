package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("MOD_LOG_CHANNEL_ID", "100")
	t.Setenv("GENERAL_CHANNEL_ID", "200")
	t.Setenv("STAFF_CHANNEL_IDS", "300,301")
	for _, key := range []string{"DATA_DIR", "AUDIT_DB_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Bot.Token)
	assert.Equal(t, "100", cfg.Channels.ModLogID)
	assert.Equal(t, "200", cfg.Channels.GeneralID)
	assert.Equal(t, []string{"300", "301"}, cfg.Channels.StaffIDs)
	assert.Equal(t, "data", cfg.Storage.DataDir)
}

func TestLoadFromFile(t *testing.T) {
	// t.Setenv registers restoration; Unsetenv makes the file authoritative.
	for _, key := range []string{"DISCORD_TOKEN", "MOD_LOG_CHANNEL_ID", "GENERAL_CHANNEL_ID", "STAFF_CHANNEL_IDS", "DATA_DIR", "AUDIT_DB_PATH"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"bot": {"token": "filetok"},
		"channels": {"mod_log_id": "1", "general_id": "2", "staff_ids": ["3"]},
		"storage": {"data_dir": "/tmp/mk", "audit_db_path": "/tmp/mk/audit.db"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "filetok", cfg.Bot.Token)
	assert.Equal(t, []string{"3"}, cfg.Channels.StaffIDs)
	assert.Equal(t, "/tmp/mk", cfg.Storage.DataDir)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "tok")
	t.Setenv("MOD_LOG_CHANNEL_ID", "")
	t.Setenv("GENERAL_CHANNEL_ID", "2")

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "MOD_LOG_CHANNEL_ID")
}
