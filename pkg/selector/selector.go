// Package selector maps free-text task descriptions and command names to
// ordered lists of skill identifiers. Selection is driven by an immutable
// ruleset loaded once at startup: a fixed set of baseline skills, an ordered
// keyword-rule table matched against the lower-cased description, and a
// trailing retrospective skill. The selector is a pure function of its input
// and the ruleset, and is safe for concurrent use.
package selector

import (
	"strings"
	"unicode"
)

// KeywordRule associates a set of trigger substrings with a skill identifier.
// If any trigger occurs in the lower-cased task description, the skill is
// added to the selection (once).
type KeywordRule struct {
	Skill    string   `yaml:"skill"`
	Triggers []string `yaml:"triggers"`
}

// Ruleset is the full selection configuration: baseline skills, the ordered
// keyword-rule table, the trailing skill, and per-command base skill lists.
// A Ruleset is immutable after load; changes require a new config version.
type Ruleset struct {
	// Defaults are baseline skill identifiers present in every task selection.
	Defaults []string `yaml:"defaults"`
	// Rules is the ordered keyword-rule table.
	Rules []KeywordRule `yaml:"rules"`
	// Trailing is appended to every task selection after the rule pass.
	Trailing string `yaml:"trailing"`
	// Commands maps a command name to its base skill list.
	Commands map[string][]string `yaml:"commands"`
	// Fallback is the single-skill base list for unknown commands.
	Fallback string `yaml:"fallback"`

	matchWords bool
}

// Option configures selection behavior.
type Option func(*Ruleset)

// WithWordMatching switches trigger matching from plain substring containment
// to word-boundary token matching. This is a behavior change relative to the
// default: with substring matching a trigger like "api" also matches inside
// "rapid"; word matching does not.
func WithWordMatching() Option {
	return func(r *Ruleset) {
		r.matchWords = true
	}
}

// Select returns the ordered skill identifiers for a free-text task
// description: defaults first, then keyword-triggered skills in rule order,
// then the trailing skill. The result is de-duplicated preserving first-seen
// order. Select never fails; an empty or unmatched description yields the
// defaults plus the trailing skill.
func (r *Ruleset) Select(description string) []string {
	result := make([]string, 0, len(r.Defaults)+len(r.Rules)+1)
	seen := make(map[string]bool, cap(result))

	for _, skill := range r.Defaults {
		result = appendUnique(result, seen, skill)
	}

	result = r.applyRules(result, seen, description)

	if r.Trailing != "" {
		result = appendUnique(result, seen, r.Trailing)
	}

	return result
}

// SelectForCommand returns the ordered skill identifiers for a named command,
// starting from the command's base skill list (or the fallback skill when the
// command is unknown) and applying the keyword-rule pass over the optional
// description. No trailing skill is appended; command base lists already
// include it where relevant.
func (r *Ruleset) SelectForCommand(command, description string) []string {
	base, ok := r.Commands[command]
	if !ok {
		base = []string{r.Fallback}
	}

	result := make([]string, 0, len(base)+len(r.Rules))
	seen := make(map[string]bool, cap(result))

	for _, skill := range base {
		result = appendUnique(result, seen, skill)
	}

	return r.applyRules(result, seen, description)
}

func (r *Ruleset) applyRules(result []string, seen map[string]bool, description string) []string {
	if description == "" {
		return result
	}

	lowered := strings.ToLower(description)
	var tokens map[string]bool
	if r.matchWords {
		tokens = tokenize(lowered)
	}

	for _, rule := range r.Rules {
		for _, trigger := range rule.Triggers {
			if r.matchWords {
				if tokens[trigger] {
					result = appendUnique(result, seen, rule.Skill)
					break
				}
			} else if strings.Contains(lowered, trigger) {
				result = appendUnique(result, seen, rule.Skill)
				break
			}
		}
	}

	return result
}

func appendUnique(result []string, seen map[string]bool, skill string) []string {
	if seen[skill] {
		return result
	}
	seen[skill] = true
	return append(result, skill)
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = true
	}
	return tokens
}
