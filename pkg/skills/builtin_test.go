package skills

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBuiltins(t *testing.T) {
	names, err := ListBuiltins()
	require.NoError(t, err)

	// Every identifier the builtin ruleset can emit has embedded content.
	for _, name := range []string{
		"core/thinking",
		"core/verification",
		"core/retrospective",
		"development/testing",
		"development/tdd",
		"development/debugging",
		"infrastructure/serverless",
		"data/modeling",
		"data/duckdb",
		"planning/design",
	} {
		assert.Contains(t, names, name)
	}
}

func TestInstallBuiltins(t *testing.T) {
	destRoot := t.TempDir()

	installed, err := InstallBuiltins(destRoot)
	require.NoError(t, err)
	assert.Contains(t, installed, "core/thinking")

	d, err := NewDiscovery(WithRoots(destRoot))
	require.NoError(t, err)

	found, err := d.DiscoverSkills()
	require.NoError(t, err)

	builtins, err := ListBuiltins()
	require.NoError(t, err)
	assert.Len(t, found, len(builtins))

	thinking := found["core/thinking"]
	require.NotNil(t, thinking)
	assert.NotEmpty(t, thinking.Description)
	assert.Contains(t, thinking.Content, "# Thinking")
}

func TestInstallBuiltinsSkipsExisting(t *testing.T) {
	destRoot := t.TempDir()

	first, err := InstallBuiltins(destRoot)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	// Second run writes nothing.
	second, err := InstallBuiltins(destRoot)
	require.NoError(t, err)
	assert.Empty(t, second)

	assert.FileExists(t, filepath.Join(destRoot, "core", "thinking", "SKILL.md"))
}
