// Package benchfile finds and parses per-model benchmark CSV files.
package benchfile

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// DefaultPattern matches the performance files written for the target backend.
const DefaultPattern = "*_xpu_performance.csv"

// ErrNotDirectory is returned when a scan root is missing or is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Discover walks root recursively and returns every regular file whose base
// name matches pattern. Paths are returned in walk order, which afero keeps
// lexical within each directory.
func Discover(fs afero.Fs, root, pattern string) ([]string, error) {
	if err := RequireDir(fs, root); err != nil {
		return nil, err
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, "invalid file pattern %q", pattern)
	}

	// afero.Walk lstats the root, so a symlinked root would yield nothing.
	walkRoot, err := resolveRoot(fs, root)
	if err != nil {
		return nil, err
	}

	var found []string
	err = afero.Walk(fs, walkRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		ok, _ := filepath.Match(pattern, info.Name())
		if !ok {
			return nil
		}
		if walkRoot != root {
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return err
			}
			path = filepath.Join(root, rel)
		}
		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walk %s", root)
	}
	return found, nil
}

const maxLinkHops = 40

// resolveRoot follows symlinks at root itself. Entries below the root are
// walked as they are. Filesystems without link support return root unchanged.
func resolveRoot(fs afero.Fs, root string) (string, error) {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return root, nil
	}
	path := root
	for i := 0; i < maxLinkHops; i++ {
		info, lstatCalled, err := lstater.LstatIfPossible(path)
		if err != nil {
			return "", errors.Wrapf(err, "lstat %s", path)
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		target, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", errors.Wrapf(err, "readlink %s", path)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = target
	}
	return "", errors.Errorf("too many levels of symbolic links at %s", root)
}

// RequireDir reports ErrNotDirectory unless path is an existing directory.
func RequireDir(fs afero.Fs, path string) error {
	if path == "" {
		return errors.Wrap(ErrNotDirectory, "empty path")
	}
	ok, err := afero.DirExists(fs, filepath.Clean(path))
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	if !ok {
		return errors.Wrap(ErrNotDirectory, path)
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "stat %s", path)
	}
	return info.Mode().IsRegular(), nil
}
