package selector

import (
	"bytes"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a ruleset from a YAML file. Unknown fields are rejected so that
// typos in a rules file fail loudly at startup instead of silently changing
// selection behavior. The loaded ruleset is validated before use.
func Load(path string, opts ...Option) (*Ruleset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read rules file %q", path)
	}

	r := &Ruleset{}
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil {
		return nil, errors.Wrapf(err, "failed to parse rules file %q", path)
	}

	if err := r.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid rules file %q", path)
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Validate checks the ruleset for configuration mistakes. All problems are
// reported at once rather than one at a time.
func (r *Ruleset) Validate() error {
	var result *multierror.Error

	if len(r.Defaults) == 0 {
		result = multierror.Append(result, errors.New("defaults must contain at least one skill"))
	}
	if r.Trailing == "" {
		result = multierror.Append(result, errors.New("trailing skill is required"))
	}
	if r.Fallback == "" {
		result = multierror.Append(result, errors.New("fallback skill is required"))
	}

	for i, rule := range r.Rules {
		if rule.Skill == "" {
			result = multierror.Append(result, errors.Errorf("rule %d: skill is required", i))
		}
		if len(rule.Triggers) == 0 {
			result = multierror.Append(result, errors.Errorf("rule %d (%s): at least one trigger is required", i, rule.Skill))
		}
		for _, trigger := range rule.Triggers {
			if trigger == "" {
				result = multierror.Append(result, errors.Errorf("rule %d (%s): empty trigger", i, rule.Skill))
				continue
			}
			if trigger != strings.ToLower(trigger) {
				result = multierror.Append(result, errors.Errorf("rule %d (%s): trigger %q must be lower-case", i, rule.Skill, trigger))
			}
		}
	}

	for name, skills := range r.Commands {
		if len(skills) == 0 {
			result = multierror.Append(result, errors.Errorf("command %q: base skill list must not be empty", name))
		}
	}

	return result.ErrorOrNil()
}
