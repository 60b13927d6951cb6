package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBaselineAlwaysPresent(t *testing.T) {
	r := Builtin()

	inputs := []string{
		"",
		"Write unit tests for the login flow",
		"completely unrelated text",
		"DEBUG THE ERROR",
	}

	for _, input := range inputs {
		result := r.Select(input)
		assert.Contains(t, result, "core/thinking", "input: %q", input)
		assert.Contains(t, result, "core/verification", "input: %q", input)
		assert.Contains(t, result, "core/retrospective", "input: %q", input)
	}
}

func TestSelectEmptyInput(t *testing.T) {
	r := Builtin()

	result := r.Select("")
	assert.Equal(t, []string{"core/thinking", "core/verification", "core/retrospective"}, result)
}

func TestSelectNoTriggerMatch(t *testing.T) {
	r := Builtin()

	result := r.Select("refactor the login form styling")
	assert.Equal(t, []string{"core/thinking", "core/verification", "core/retrospective"}, result)
}

func TestSelectTestingKeywords(t *testing.T) {
	r := Builtin()

	for _, input := range []string{
		"Write unit tests for the login flow",
		"set up TDD workflow",
		"run Pytest on the suite",
	} {
		result := r.Select(input)
		assert.Contains(t, result, "development/testing", "input: %q", input)
	}
}

func TestSelectScenarios(t *testing.T) {
	r := Builtin()

	t.Run("unit tests for login flow", func(t *testing.T) {
		result := r.Select("Write unit tests for the login flow")
		assert.Equal(t, []string{
			"core/thinking",
			"core/verification",
			"development/testing",
			"core/retrospective",
		}, result)
	})

	t.Run("deploy lambda for checkout API", func(t *testing.T) {
		result := r.Select("Deploy a lambda for the checkout API")
		assert.Equal(t, []string{
			"core/thinking",
			"core/verification",
			"infrastructure/serverless",
			"core/retrospective",
		}, result)
	})

	t.Run("debug failing error in data migration", func(t *testing.T) {
		result := r.Select("Debug the failing error in data migration")
		assert.Equal(t, []string{
			"core/thinking",
			"core/verification",
			"development/debugging",
			"data/modeling",
			"data/duckdb",
			"core/retrospective",
		}, result)
	})
}

func TestSelectCaseInsensitive(t *testing.T) {
	r := Builtin()

	lower := r.Select("write tests for the parser")
	upper := r.Select("WRITE TESTS FOR THE PARSER")
	assert.Equal(t, lower, upper)
}

func TestSelectIdempotent(t *testing.T) {
	r := Builtin()

	input := "debug the deploy pipeline and add tests"
	first := r.Select(input)
	second := r.Select(input)
	assert.Equal(t, first, second)
}

func TestSelectDeduplicatesFirstSeen(t *testing.T) {
	r := &Ruleset{
		Defaults: []string{"core/thinking", "core/retrospective"},
		Trailing: "core/retrospective",
		Fallback: "core/thinking",
		Rules: []KeywordRule{
			{Skill: "core/thinking", Triggers: []string{"think"}},
			{Skill: "development/testing", Triggers: []string{"test"}},
		},
	}

	result := r.Select("think hard and test everything")
	assert.Equal(t, []string{"core/thinking", "core/retrospective", "development/testing"}, result)
}

func TestSelectSubstringFalsePositive(t *testing.T) {
	r := &Ruleset{
		Defaults: []string{"core/thinking"},
		Trailing: "core/retrospective",
		Fallback: "core/thinking",
		Rules: []KeywordRule{
			{Skill: "development/api-design", Triggers: []string{"api"}},
		},
	}

	// Default substring matching triggers on "api" inside "rapid".
	result := r.Select("rapid prototyping")
	assert.Contains(t, result, "development/api-design")
}

func TestSelectWordMatching(t *testing.T) {
	r := &Ruleset{
		Defaults: []string{"core/thinking"},
		Trailing: "core/retrospective",
		Fallback: "core/thinking",
		Rules: []KeywordRule{
			{Skill: "development/api-design", Triggers: []string{"api"}},
		},
	}
	WithWordMatching()(r)

	result := r.Select("rapid prototyping")
	assert.NotContains(t, result, "development/api-design")

	result = r.Select("design the checkout API")
	assert.Contains(t, result, "development/api-design")
}

func TestSelectForCommandImplement(t *testing.T) {
	r := Builtin()

	result := r.SelectForCommand("implement", "")
	assert.Equal(t, []string{
		"core/thinking",
		"core/verification",
		"development/tdd",
		"development/debugging",
		"core/retrospective",
	}, result)
}

func TestSelectForCommandUnknownFallsBack(t *testing.T) {
	r := Builtin()

	result := r.SelectForCommand("unknown-command", "")
	assert.Equal(t, []string{"core/thinking"}, result)
}

func TestSelectForCommandAppliesKeywordPass(t *testing.T) {
	r := Builtin()

	result := r.SelectForCommand("plan", "plan the data migration")
	assert.Equal(t, []string{
		"core/thinking",
		"planning/design",
		"core/retrospective",
		"data/modeling",
		"data/duckdb",
	}, result)
}

func TestSelectForCommandNoTrailingAppend(t *testing.T) {
	r := Builtin()

	// Unknown command with no description: just the fallback, no trailing.
	result := r.SelectForCommand("unknown-command", "refactor styling")
	assert.Equal(t, []string{"core/thinking"}, result)
}

func TestSelectBounded(t *testing.T) {
	r := Builtin()

	// Every trigger in one description: result is bounded by
	// defaults + rules + trailing and stays duplicate-free.
	result := r.Select("test tdd pytest debug error fix lambda serverless deploy data migration schema duckdb sql")
	assert.LessOrEqual(t, len(result), len(r.Defaults)+len(r.Rules)+1)

	seen := map[string]bool{}
	for _, skill := range result {
		assert.False(t, seen[skill], "duplicate skill %q", skill)
		seen[skill] = true
	}
}
