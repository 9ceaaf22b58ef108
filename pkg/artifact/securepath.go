// Package artifact reads externally produced PRD and task-list markdown
// files and converts them into a structured view usable to seed
// decomposition. It is never required: every operation here
// degrades to an empty result rather than blocking the pipeline.
package artifact

import (
	"path/filepath"
	"strings"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
)

// ResolveUnderRoot resolves path (which may be relative to root) and
// verifies the resolved, symlink-free location is contained within root.
// Every file-system access in this package goes through this single
// secure-path validator.
func ResolveUnderRoot(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", coreerrors.Wrap("artifact", coreerrors.KindInvalidInput, "resolving allowed root", err)
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absRoot, candidate)
	}

	resolvedRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", coreerrors.Wrap("artifact", coreerrors.KindInvalidInput, "resolving allowed root symlinks", err)
	}

	resolved, err := resolveExistingOrParent(candidate)
	if err != nil {
		return "", coreerrors.Wrap("artifact", coreerrors.KindInvalidInput, "resolving path symlinks", err)
	}

	rel, err := filepath.Rel(resolvedRoot, resolved)
	if err != nil {
		return "", coreerrors.Wrap("artifact", coreerrors.KindInvalidInput, "computing path containment", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", coreerrors.New("artifact", coreerrors.KindInvalidInput, "path escapes the allowed project root")
	}

	return resolved, nil
}

// resolveExistingOrParent evaluates symlinks on path, walking up to the
// nearest existing ancestor when path itself does not yet exist (e.g. a
// file about to be written).
func resolveExistingOrParent(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(path)
	if parent == path {
		return path, nil
	}
	resolvedParent, parentErr := resolveExistingOrParent(parent)
	if parentErr != nil {
		return "", parentErr
	}
	return filepath.Join(resolvedParent, filepath.Base(path)), nil
}
