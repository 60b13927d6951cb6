package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSkill(t *testing.T, root, category, name, description, body string) string {
	t.Helper()
	dir := filepath.Join(root, category, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	content := "---\nname: " + name + "\ndescription: " + description + "\n---\n\n" + body
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SKILL.md"), []byte(content), 0o644))
	return dir
}

func TestNewDiscovery(t *testing.T) {
	t.Run("with default roots", func(t *testing.T) {
		d, err := NewDiscovery()
		require.NoError(t, err)
		assert.Len(t, d.Roots(), 2)
	})

	t.Run("with custom roots", func(t *testing.T) {
		d, err := NewDiscovery(WithRoots("/tmp/a", "/tmp/b"))
		require.NoError(t, err)
		assert.Equal(t, []string{"/tmp/a", "/tmp/b"}, d.Roots())
	})

	t.Run("rejects empty roots", func(t *testing.T) {
		_, err := NewDiscovery(WithRoots())
		assert.Error(t, err)
	})
}

func TestDiscoverSkills(t *testing.T) {
	root := t.TempDir()
	thinkingDir := writeSkill(t, root, "core", "thinking", "Structured reasoning", "# Thinking\n\nThink before acting.")
	writeSkill(t, root, "development", "testing", "Test-first development", "# Testing\n\nWrite the test first.")

	d, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	found, err := d.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, found, 2)

	thinking := found["core/thinking"]
	require.NotNil(t, thinking)
	assert.Equal(t, "core/thinking", thinking.Name)
	assert.Equal(t, "core", thinking.Category)
	assert.Equal(t, "Structured reasoning", thinking.Description)
	assert.Equal(t, thinkingDir, thinking.Directory)
	assert.Contains(t, thinking.Content, "# Thinking")
	assert.NotContains(t, thinking.Content, "description:")

	require.NotNil(t, found["development/testing"])
}

func TestDiscoverSkillsPrecedence(t *testing.T) {
	local := t.TempDir()
	global := t.TempDir()
	writeSkill(t, local, "core", "thinking", "local copy", "local body")
	writeSkill(t, global, "core", "thinking", "global copy", "global body")
	writeSkill(t, global, "core", "verification", "global only", "body")

	d, err := NewDiscovery(WithRoots(local, global))
	require.NoError(t, err)

	found, err := d.DiscoverSkills()
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Repo-local shadows user-global.
	assert.Equal(t, "local copy", found["core/thinking"].Description)
	assert.Equal(t, "global only", found["core/verification"].Description)
}

func TestDiscoverSkillsSkipsMalformed(t *testing.T) {
	root := t.TempDir()

	noFrontmatter := filepath.Join(root, "core", "broken")
	require.NoError(t, os.MkdirAll(noFrontmatter, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(noFrontmatter, "SKILL.md"), []byte("# No frontmatter"), 0o644))

	noDescription := filepath.Join(root, "core", "half")
	require.NoError(t, os.MkdirAll(noDescription, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(noDescription, "SKILL.md"), []byte("---\nname: half\n---\nbody"), 0o644))

	writeSkill(t, root, "core", "thinking", "fine", "body")

	d, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	found, err := d.DiscoverSkills()
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.NotNil(t, found["core/thinking"])
}

func TestDiscoverSkillsMissingRoot(t *testing.T) {
	d, err := NewDiscovery(WithRoots(filepath.Join(t.TempDir(), "does-not-exist")))
	require.NoError(t, err)

	found, err := d.DiscoverSkills()
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetSkill(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "core", "thinking", "desc", "body")

	d, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	skill, err := d.GetSkill("core/thinking")
	require.NoError(t, err)
	assert.Equal(t, "core/thinking", skill.Name)

	_, err = d.GetSkill("core/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListSkillNamesSorted(t *testing.T) {
	root := t.TempDir()
	writeSkill(t, root, "development", "testing", "d", "b")
	writeSkill(t, root, "core", "thinking", "d", "b")
	writeSkill(t, root, "core", "retrospective", "d", "b")

	d, err := NewDiscovery(WithRoots(root))
	require.NoError(t, err)

	names, err := d.ListSkillNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"core/retrospective", "core/thinking", "development/testing"}, names)
}

func TestFilterByPatterns(t *testing.T) {
	all := map[string]*Skill{
		"core/thinking":       {Name: "core/thinking"},
		"core/verification":   {Name: "core/verification"},
		"development/testing": {Name: "development/testing"},
	}

	t.Run("empty patterns return all", func(t *testing.T) {
		filtered, err := FilterByPatterns(all, nil)
		require.NoError(t, err)
		assert.Len(t, filtered, 3)
	})

	t.Run("category glob", func(t *testing.T) {
		filtered, err := FilterByPatterns(all, []string{"core/*"})
		require.NoError(t, err)
		assert.Len(t, filtered, 2)
		assert.Contains(t, filtered, "core/thinking")
		assert.Contains(t, filtered, "core/verification")
	})

	t.Run("exact name", func(t *testing.T) {
		filtered, err := FilterByPatterns(all, []string{"development/testing"})
		require.NoError(t, err)
		assert.Len(t, filtered, 1)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := FilterByPatterns(all, []string{"[unclosed"})
		assert.Error(t, err)
	})
}

func TestExtractBodyContent(t *testing.T) {
	t.Run("strips frontmatter", func(t *testing.T) {
		body := extractBodyContent("---\nname: x\n---\n\n# Body\n")
		assert.Equal(t, "# Body\n", body)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		body := extractBodyContent("# Body only\n")
		assert.Equal(t, "# Body only\n", body)
	})

	t.Run("unterminated frontmatter", func(t *testing.T) {
		content := "---\nname: x\nno closing fence"
		assert.Equal(t, content, extractBodyContent(content))
	})
}
