package selector

// Builtin returns the built-in ruleset used when no rules file is configured.
// The table is versioned with the binary; rule changes ship as new releases
// rather than runtime mutation.
func Builtin(opts ...Option) *Ruleset {
	r := &Ruleset{
		Defaults: []string{"core/thinking", "core/verification"},
		Trailing: "core/retrospective",
		Fallback: "core/thinking",
		Rules: []KeywordRule{
			{Skill: "development/testing", Triggers: []string{"test", "tdd", "pytest"}},
			{Skill: "development/debugging", Triggers: []string{"debug", "error", "fix"}},
			{Skill: "infrastructure/serverless", Triggers: []string{"lambda", "serverless", "deploy"}},
			{Skill: "data/modeling", Triggers: []string{"data", "migration", "schema"}},
			{Skill: "data/duckdb", Triggers: []string{"duckdb", "sql", "migration", "data"}},
		},
		Commands: map[string][]string{
			"implement": {
				"core/thinking",
				"core/verification",
				"development/tdd",
				"development/debugging",
				"core/retrospective",
			},
			"plan": {
				"core/thinking",
				"planning/design",
				"core/retrospective",
			},
			"debug": {
				"core/thinking",
				"development/debugging",
				"core/retrospective",
			},
			"retrospective": {
				"core/retrospective",
			},
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}
