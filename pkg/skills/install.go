package skills

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/Drcollinjc/claude-skills/pkg/logger"
)

// codeloadURLTemplate downloads a repository snapshot as a gzipped tarball.
var codeloadURLTemplate = "https://codeload.github.com/%s/tar.gz/%s"

const defaultRef = "HEAD"

// Installer downloads skill packs from GitHub repositories and installs every
// directory containing a SKILL.md into a local skill root.
type Installer struct {
	client   *http.Client
	attempts uint
	delay    time.Duration
}

// NewInstaller creates an Installer with sensible retry defaults.
func NewInstaller() *Installer {
	return &Installer{
		client:   &http.Client{Timeout: 60 * time.Second},
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
}

// ParseRepoAndRef splits "org/repo@ref" into repository and ref. The ref
// defaults to HEAD when omitted.
func ParseRepoAndRef(repo string) (string, string) {
	if idx := strings.LastIndex(repo, "@"); idx != -1 {
		return repo[:idx], repo[idx+1:]
	}
	return repo, defaultRef
}

// Install downloads the repository tarball and installs all skill directories
// found in it under destRoot, preserving the pack's category/name layout.
// Returns the identifiers of the installed skills. Skills that already exist
// under destRoot are skipped.
func (i *Installer) Install(ctx context.Context, repoRef, destRoot string) ([]string, error) {
	repo, ref := ParseRepoAndRef(repoRef)
	if !strings.Contains(repo, "/") {
		return nil, errors.Errorf("invalid repository %q, expected org/repo", repo)
	}

	archive, err := i.download(ctx, fmt.Sprintf(codeloadURLTemplate, repo, ref))
	if err != nil {
		return nil, err
	}

	tmpDir, err := os.MkdirTemp("", "claude-skills-pack-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temporary directory")
	}
	defer os.RemoveAll(tmpDir)

	if err := extractTarGz(archive, tmpDir); err != nil {
		return nil, errors.Wrapf(err, "failed to extract archive for %q", repoRef)
	}

	skillDirs, err := findSkillDirs(tmpDir)
	if err != nil {
		return nil, err
	}

	var installed []string
	for _, dir := range skillDirs {
		name := skillIdentifier(tmpDir, dir)
		destDir := filepath.Join(destRoot, filepath.FromSlash(name))

		if _, err := os.Stat(destDir); err == nil {
			logger.G(ctx).WithField("skill", name).Warn("skill already installed, skipping")
			continue
		}

		if err := copyDir(dir, destDir); err != nil {
			return installed, errors.Wrapf(err, "failed to install skill %q", name)
		}
		installed = append(installed, name)
	}

	return installed, nil
}

// download fetches the archive with retries. Missing repositories and refs
// are not retried.
func (i *Installer) download(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := i.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusNotFound {
				return retry.Unrecoverable(errors.Errorf("repository or ref not found: %s", url))
			}
			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
			}

			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(i.attempts),
		retry.Delay(i.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).WithField("attempt", n+1).Warn("retrying skill pack download")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download skill pack")
	}

	return body, nil
}

func extractTarGz(archive []byte, dest string) error {
	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return errors.Wrap(err, "failed to open gzip stream")
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read tar entry")
		}

		// Strip the top-level "<repo>-<ref>/" directory that codeload adds.
		parts := strings.SplitN(filepath.ToSlash(hdr.Name), "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		rel := filepath.FromSlash(parts[1])

		target := filepath.Join(dest, rel)
		if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
			return errors.Errorf("archive entry escapes destination: %s", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}

// findSkillDirs returns every directory under root containing a SKILL.md.
func findSkillDirs(root string) ([]string, error) {
	var skillDirs []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && (info.Name() == ".git" || info.Name() == "node_modules") {
			return filepath.SkipDir
		}

		if !info.IsDir() && info.Name() == skillFileName {
			skillDirs = append(skillDirs, filepath.Dir(path))
		}

		return nil
	})

	return skillDirs, err
}

// skillIdentifier derives the "category/name" identifier from a skill
// directory's position in the pack. Packs that keep skills at the top level
// get the "community" category.
func skillIdentifier(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		rel = filepath.Base(dir)
	}

	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return "community/" + parts[0]
}

func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, info.Mode())
		}

		return copyFile(path, destPath)
	})
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
