package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Discovery finds skills in configured root directories. Earlier roots take
// precedence: a repo-local skill shadows a user-global skill with the same
// identifier.
type Discovery struct {
	roots []string
}

// Option is a function that configures a Discovery.
type Option func(*Discovery) error

// WithRoots sets custom skill root directories.
func WithRoots(dirs ...string) Option {
	return func(d *Discovery) error {
		if len(dirs) == 0 {
			return errors.New("at least one skill root must be specified")
		}
		d.roots = dirs
		return nil
	}
}

// WithDefaultRoots initializes the repo-local and user-global skill roots.
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.roots = []string{
			"./.claude-skills/skills", // Repo-local (highest precedence)
			filepath.Join(homeDir, ".claude-skills", "skills"), // User-global
		}
		return nil
	}
}

// NewDiscovery creates a skill discovery instance. Without options the
// default roots are used.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		if err := WithDefaultRoots()(d); err != nil {
			return nil, err
		}
		return d, nil
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the configured skill root directories.
func (d *Discovery) Roots() []string {
	return d.roots
}

// DiscoverSkills finds all skills under the configured roots, keyed by their
// namespaced identifier. Roots or categories that do not exist are skipped;
// malformed SKILL.md files are ignored.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)

	for _, root := range d.roots {
		categories, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, category := range categories {
			if !isDir(filepath.Join(root, category.Name())) {
				continue
			}
			d.discoverCategory(root, category.Name(), skills)
		}
	}

	return skills, nil
}

func (d *Discovery) discoverCategory(root, category string, skills map[string]*Skill) {
	categoryDir := filepath.Join(root, category)
	entries, err := os.ReadDir(categoryDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		skillDir := filepath.Join(categoryDir, entry.Name())
		if !isDir(skillDir) {
			continue
		}

		skill, err := loadSkill(filepath.Join(skillDir, skillFileName))
		if err != nil {
			continue
		}

		name := category + "/" + entry.Name()
		if _, exists := skills[name]; exists {
			continue
		}

		skill.Name = name
		skill.Category = category
		skill.Directory = skillDir
		skills[name] = skill
	}
}

// isDir follows symlinks, so a symlinked skill directory still counts.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetSkill returns a specific skill by its namespaced identifier.
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}

	return skill, nil
}

// ListSkillNames returns the sorted identifiers of all available skills.
func (d *Discovery) ListSkillNames() ([]string, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// loadSkill loads a single skill from its SKILL.md file.
func loadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Description: description,
		Content:     extractBodyContent(string(content)),
	}, nil
}

// extractBodyContent removes YAML frontmatter and returns the body.
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// FilterByPatterns filters skills by allowlist glob patterns such as "core/*"
// or "development/testing". An empty pattern list returns all skills.
// Patterns that fail to compile are reported; matching skills from valid
// patterns are still returned.
func FilterByPatterns(skills map[string]*Skill, patterns []string) (map[string]*Skill, error) {
	if len(patterns) == 0 {
		return skills, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid allowlist pattern %q", pattern)
		}
		globs = append(globs, g)
	}

	filtered := make(map[string]*Skill)
	for name, skill := range skills {
		for _, g := range globs {
			if g.Match(name) {
				filtered[name] = skill
				break
			}
		}
	}
	return filtered, nil
}
