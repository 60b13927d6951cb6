package selector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRulesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRulesFile(t, `
defaults:
  - core/thinking
  - core/verification
trailing: core/retrospective
fallback: core/thinking
rules:
  - skill: development/testing
    triggers: [test, tdd]
commands:
  implement:
    - core/thinking
    - development/tdd
`)

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"core/thinking", "core/verification"}, r.Defaults)
	assert.Equal(t, "core/retrospective", r.Trailing)
	assert.Len(t, r.Rules, 1)
	assert.Equal(t, []string{"core/thinking", "development/tdd"}, r.Commands["implement"])

	result := r.Select("add tests")
	assert.Equal(t, []string{"core/thinking", "core/verification", "development/testing", "core/retrospective"}, result)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read rules file")
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeRulesFile(t, `
defaults: [core/thinking]
trailing: core/retrospective
fallback: core/thinking
rulez: []
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse rules file")
}

func TestLoadInvalidRuleset(t *testing.T) {
	path := writeRulesFile(t, `
defaults: []
trailing: ""
fallback: ""
rules:
  - skill: ""
    triggers: []
  - skill: development/testing
    triggers: [Test]
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defaults must contain at least one skill")
	assert.Contains(t, err.Error(), "trailing skill is required")
	assert.Contains(t, err.Error(), "fallback skill is required")
	assert.Contains(t, err.Error(), "skill is required")
	assert.Contains(t, err.Error(), "must be lower-case")
}

func TestBuiltinIsValid(t *testing.T) {
	assert.NoError(t, Builtin().Validate())
}

func TestValidateEmptyCommandList(t *testing.T) {
	r := Builtin()
	r.Commands["broken"] = nil
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `command "broken"`)
	delete(r.Commands, "broken")
}
