package skills

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// builtinFS holds the skill pack shipped with the binary. `init` materializes
// it into a local skill root so the selector's builtin rule table has content
// to resolve against out of the box.
//
//go:embed builtin
var builtinFS embed.FS

const builtinRoot = "builtin"

// ListBuiltins returns the sorted identifiers of the embedded skill pack.
func ListBuiltins() ([]string, error) {
	var names []string

	err := fs.WalkDir(builtinFS, builtinRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == skillFileName {
			rel := strings.TrimPrefix(path.Dir(p), builtinRoot+"/")
			names = append(names, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk builtin skills")
	}

	sort.Strings(names)
	return names, nil
}

// InstallBuiltins writes the embedded skill pack into destRoot, preserving
// the category/name layout. Existing skill directories are left untouched.
// Returns the identifiers of the skills written.
func InstallBuiltins(destRoot string) ([]string, error) {
	var installed []string

	names, err := ListBuiltins()
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		destDir := filepath.Join(destRoot, filepath.FromSlash(name))
		if _, err := os.Stat(destDir); err == nil {
			continue
		}

		srcDir := path.Join(builtinRoot, name)
		if err := copyEmbeddedDir(srcDir, destDir); err != nil {
			return installed, errors.Wrapf(err, "failed to install builtin skill %q", name)
		}
		installed = append(installed, name)
	}

	return installed, nil
}

func copyEmbeddedDir(srcDir, destDir string) error {
	return fs.WalkDir(builtinFS, srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(p, srcDir)
		rel = strings.TrimPrefix(rel, "/")
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		content, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, content, 0o644)
	})
}
