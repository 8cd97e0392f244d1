// Package trash moves files to the user's trash directory instead of
// deleting them, following the freedesktop.org Trash layout so desktop
// environments can restore them.
package trash

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

// Dir returns the user trash directory, honoring XDG_DATA_HOME.
func Dir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash"), nil
}

// Move puts path into the trash, writing the .trashinfo sidecar that
// records the original location and deletion time. The file keeps its
// basename, suffixed with a counter on collision.
func Move(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}

	trashDir, err := Dir()
	if err != nil {
		return err
	}
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, d := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return fmt.Errorf("create trash dir: %w", err)
		}
	}

	name, infoFile, err := claimName(infoDir, filepath.Base(abs), abs)
	if err != nil {
		return err
	}

	if err := moveFile(abs, filepath.Join(filesDir, name)); err != nil {
		// The claimed sidecar must not describe a file that never
		// arrived.
		_ = os.Remove(infoFile)
		return err
	}
	return nil
}

// claimName reserves a unique name in the trash by creating the info
// sidecar exclusively. The sidecar acts as the lock: two concurrent
// moves of same-named files get distinct slots.
func claimName(infoDir, base, original string) (string, string, error) {
	deleted := time.Now().Format("2006-01-02T15:04:05")
	escaped := (&url.URL{Path: original}).EscapedPath()
	info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", escaped, deleted)

	name := base
	for i := 1; ; i++ {
		infoFile := filepath.Join(infoDir, name+".trashinfo")
		f, err := os.OpenFile(infoFile, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, werr := f.WriteString(info)
			cerr := f.Close()
			if werr != nil {
				return "", "", fmt.Errorf("write trash info: %w", werr)
			}
			if cerr != nil {
				return "", "", fmt.Errorf("write trash info: %w", cerr)
			}
			return name, infoFile, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("claim trash slot: %w", err)
		}
		ext := filepath.Ext(base)
		name = base[:len(base)-len(ext)] + "." + strconv.Itoa(i) + ext
	}
}

// moveFile renames src into the trash, falling back to copy-and-delete
// when the trash lives on a different filesystem.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("move to trash: %w", err)
	}

	if err := copyAcross(src, dst); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("copy to trash: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove original: %w", err)
	}
	return nil
}

func copyAcross(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
