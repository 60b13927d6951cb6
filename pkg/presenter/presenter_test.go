package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*Presenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestError(t *testing.T) {
	p, out, errOut := newTestPresenter()

	p.Error(errors.New("boom"), "loading ruleset")
	assert.Contains(t, errOut.String(), "[ERROR] loading ruleset: boom")
	assert.Empty(t, out.String())

	errOut.Reset()
	p.Error(nil, "ignored")
	assert.Empty(t, errOut.String())
}

func TestQuietSuppressesNonErrors(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)

	p.Success("installed")
	p.Warning("skipping")
	p.Info("details")
	assert.Empty(t, out.String())

	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestMessages(t *testing.T) {
	p, out, _ := newTestPresenter()

	p.Success("skill installed")
	p.Warning("skill exists")
	p.Info("3 skills selected")
	p.Section("Selected Skills")

	s := out.String()
	assert.Contains(t, s, "✓ skill installed")
	assert.Contains(t, s, "[WARNING] skill exists")
	assert.Contains(t, s, "3 skills selected")
	assert.Contains(t, s, "Selected Skills")
	assert.Contains(t, s, "===============")
}
