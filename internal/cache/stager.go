// Package cache stages files from slow or remote storage into a fast
// local directory before analysis, and guarantees their removal
// afterward.
package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Stager copies files into Dir under collision-free names. The zero
// value is not usable; Dir must be an existing directory.
type Stager struct {
	Dir string
}

// Stage copies src into the staging directory under a randomized unique
// name and returns the local path. The caller owns the copy and must
// call [Stager.Unstage] exactly once (typically deferred) when done.
func (s *Stager) Stage(src string) (string, error) {
	local := filepath.Join(s.Dir, uuid.NewString()+"-"+filepath.Base(src))

	if err := copyFile(src, local); err != nil {
		// A partial copy may exist; remove it so the staging dir
		// doesn't accumulate garbage.
		_ = os.Remove(local)
		return "", err
	}
	return local, nil
}

// Unstage removes a previously staged copy. Idempotent: a missing file
// is a no-op. Never called with paths outside the staging directory.
func (s *Stager) Unstage(local string) error {
	if local == "" {
		return nil
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// copyFile copies src to dst, preserving the source's permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create staged copy: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close staged copy: %w", err)
	}
	return nil
}
