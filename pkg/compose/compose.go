// Package compose turns a skill selection into a prompt context document.
// It resolves skill identifiers to their SKILL.md content, enforces the
// maximum active-skill count by truncating the selection in order, and merges
// an optional project constitution file ahead of the skill sections.
package compose

import (
	"bytes"
	"context"
	"os"
	"strings"
	"text/template"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/Drcollinjc/claude-skills/pkg/logger"
	"github.com/Drcollinjc/claude-skills/pkg/skills"
)

// DefaultMaxActive is the default cap on active skills per composition.
const DefaultMaxActive = 5

// DefaultConstitutionPath is the repo-local constraints file merged ahead of
// skill content when present.
const DefaultConstitutionPath = "CONSTITUTION.md"

const contextTemplate = `# Active Skills
{{- if .Constitution}}

## Project Constitution

{{.Constitution}}
{{- end}}
{{- range .Skills}}

## {{.Name}}

{{.Content}}
{{- end}}
`

// Composer assembles prompt context documents from skill selections.
type Composer struct {
	discovery        *skills.Discovery
	maxActive        int
	constitutionPath string
	tmpl             *template.Template
}

// Option configures a Composer.
type Option func(*Composer)

// WithMaxActive caps the number of skills included in a composition.
// Values below 1 keep the default.
func WithMaxActive(n int) Option {
	return func(c *Composer) {
		if n >= 1 {
			c.maxActive = n
		}
	}
}

// WithConstitutionPath sets the constraints file merged into the context.
func WithConstitutionPath(path string) Option {
	return func(c *Composer) {
		c.constitutionPath = path
	}
}

// NewComposer creates a Composer resolving skills through the given discovery.
func NewComposer(discovery *skills.Discovery, opts ...Option) *Composer {
	c := &Composer{
		discovery:        discovery,
		maxActive:        DefaultMaxActive,
		constitutionPath: DefaultConstitutionPath,
		tmpl:             template.Must(template.New("context").Parse(contextTemplate)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is the outcome of a composition.
type Result struct {
	// Document is the rendered prompt context.
	Document string
	// Included lists the skill identifiers present in the document, in order.
	Included []string
	// Truncated lists identifiers dropped by the max-active cap.
	Truncated []string
	// Missing lists identifiers that could not be resolved to content.
	Missing []string
}

type section struct {
	Name    string
	Content string
}

// Compose renders a prompt context for the given selection. Identifiers
// beyond the max-active cap are dropped in order; identifiers with no
// discoverable content are skipped with a warning. The returned error
// aggregates missing skills and never invalidates the returned Result.
func (c *Composer) Compose(ctx context.Context, selection []string) (*Result, error) {
	result := &Result{}

	active := selection
	if len(active) > c.maxActive {
		result.Truncated = append(result.Truncated, active[c.maxActive:]...)
		active = active[:c.maxActive]
		logger.G(ctx).WithField("max_active", c.maxActive).
			WithField("truncated", result.Truncated).
			Debug("selection exceeds max active skills")
	}

	available, err := c.discovery.DiscoverSkills()
	if err != nil {
		return nil, errors.Wrap(err, "failed to discover skills")
	}

	var missing *multierror.Error
	sections := make([]section, 0, len(active))
	for _, name := range active {
		skill, ok := available[name]
		if !ok {
			logger.G(ctx).WithField("skill", name).Warn("skill has no content, skipping")
			result.Missing = append(result.Missing, name)
			missing = multierror.Append(missing, errors.Errorf("skill %q has no content", name))
			continue
		}
		result.Included = append(result.Included, name)
		sections = append(sections, section{
			Name:    skill.Name,
			Content: strings.TrimRight(skill.Content, "\n"),
		})
	}

	constitution, err := c.loadConstitution(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, struct {
		Constitution string
		Skills       []section
	}{
		Constitution: constitution,
		Skills:       sections,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to render context")
	}

	result.Document = buf.String()
	return result, missing.ErrorOrNil()
}

// loadConstitution reads the project constraints file. A missing file is not
// an error; the constitution is optional.
func (c *Composer) loadConstitution(ctx context.Context) (string, error) {
	if c.constitutionPath == "" {
		return "", nil
	}

	content, err := os.ReadFile(c.constitutionPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read constitution file %q", c.constitutionPath)
	}

	logger.G(ctx).WithField("path", c.constitutionPath).Debug("merging project constitution")
	return strings.TrimRight(string(content), "\n"), nil
}
