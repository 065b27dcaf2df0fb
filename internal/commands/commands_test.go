package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandSetIsWellFormed(t *testing.T) {
	cmds := GetAllCommands()
	require.NotEmpty(t, cmds)

	seen := map[string]bool{}
	for _, cmd := range cmds {
		assert.False(t, seen[cmd.Name], "duplicate command %s", cmd.Name)
		seen[cmd.Name] = true
		assert.NotEmpty(t, cmd.Description, "%s has no description", cmd.Name)

		// Discord rejects commands with a required option after an
		// optional one.
		optionalSeen := false
		for _, opt := range cmd.Options {
			if opt.Required {
				assert.False(t, optionalSeen, "%s: required option %s follows an optional one", cmd.Name, opt.Name)
			} else {
				optionalSeen = true
			}
		}
	}

	for _, name := range []string{"warn", "kick", "ban", "mute", "purge", "editreason", "lockdown", "unlock", "warnings", "ping"} {
		assert.True(t, seen[name], "missing command %s", name)
	}
}
