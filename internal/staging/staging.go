// Package staging implements the stage-then-commit discipline for book
// output directories: a book is materialized in a hidden staging directory
// under the output root and promoted with a single rename, so a failed or
// interrupted conversion never leaves a half-written book visible.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
)

// Prefix marks staging directories so discovery, cleanup, and users can
// tell them apart from finished books.
const Prefix = ".readaisy-staging-"

// Dir is one in-progress book output directory.
type Dir struct {
	// Path is the staging directory to write into.
	Path  string
	final string
}

// Begin creates a fresh staging directory under outputRoot for the book
// directory named bookDir.
func Begin(outputRoot, bookDir string) (*Dir, error) {
	path, err := os.MkdirTemp(outputRoot, Prefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Dir{Path: path, final: filepath.Join(outputRoot, bookDir)}, nil
}

// Commit promotes the staging directory to its final name. An existing
// book directory is replaced when overwrite is set and is an error
// otherwise. On error the staging directory is left in place for cleanup.
func (d *Dir) Commit(overwrite bool) error {
	if _, err := os.Stat(d.final); err == nil {
		if !overwrite {
			return fmt.Errorf("output directory already exists: %s", d.final)
		}
		if err := os.RemoveAll(d.final); err != nil {
			return fmt.Errorf("replace existing output: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.Rename(d.Path, d.final); err != nil {
		return fmt.Errorf("commit staging directory: %w", err)
	}
	return nil
}

// Abort discards the staging directory and everything in it.
func (d *Dir) Abort() {
	_ = os.RemoveAll(d.Path)
}
