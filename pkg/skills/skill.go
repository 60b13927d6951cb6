// Package skills loads skill content from disk. A skill is a directory
// containing a SKILL.md file with YAML frontmatter (name, description) and a
// markdown body of instructions. Skills are namespaced by category directory:
// <root>/<category>/<name>/SKILL.md is addressed as "category/name", matching
// the identifiers produced by the selector.
package skills

// Skill represents a discovered skill with its metadata.
type Skill struct {
	Name        string // Namespaced identifier, e.g. "core/thinking"
	Category    string // Category directory, e.g. "core"
	Description string // Brief description from frontmatter
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md, frontmatter stripped
}
