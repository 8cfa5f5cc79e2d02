package usecase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var errEmptyArtifact = errors.New("artifact is empty")

// persistFile copies src onto dst. dst is only ever touched by a rename, so a
// failed copy never leaves a truncated file behind.
func persistFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open artifact: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat artifact: %w", err)
	}
	if info.Size() == 0 {
		return 0, errEmptyArtifact
	}

	return writeAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// writeAtomic creates missing parent directories, writes into a temp file
// next to dst and renames it into place. Existing files are replaced.
func writeAtomic(dst string, write func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("sync output: %w", err)
	}
	info, err := tmp.Stat()
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("stat output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close output: %w", err)
	}
	if info.Size() == 0 {
		return 0, errEmptyArtifact
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return 0, fmt.Errorf("move into place: %w", err)
	}
	committed = true
	return info.Size(), nil
}
