package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// rename is swapped in tests to force the cross-device path.
var rename = os.Rename

// MoveFile moves src to dst. On one filesystem this is a rename. Across
// filesystems src is copied into a hidden sibling of dst, checked, renamed
// over dst and only then removed, so dst is never observed half written.
func MoveFile(src, dst string) error {
	err := rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}

	staged, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.partial")
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	stagedPath := staged.Name()
	_ = staged.Close()

	if err := CopyFileVerified(src, stagedPath); err != nil {
		_ = os.Remove(stagedPath)
		return err
	}
	if err := os.Rename(stagedPath, dst); err != nil {
		_ = os.Remove(stagedPath)
		return err
	}
	if err := os.Remove(src); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

// CopyFileVerified copies src to dst, syncs it, then re-reads dst and
// compares its SHA-256 digest with the bytes read from src. dst is removed
// when they differ.
func CopyFileVerified(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	want := sha256.New()
	if err := writeSynced(dst, io.TeeReader(in, want), info.Mode().Perm()); err != nil {
		_ = os.Remove(dst)
		return err
	}

	got, size, err := digest(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	switch {
	case size != info.Size():
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), size)
	case !bytes.Equal(got, want.Sum(nil)):
		_ = os.Remove(dst)
		return errors.New("copy hash mismatch: destination differs from source")
	}
	return nil
}

func writeSynced(path string, r io.Reader, perm fs.FileMode) error {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return fmt.Errorf("sync: %w", err)
	}
	return out.Close()
}

func digest(path string) ([]byte, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return nil, 0, fmt.Errorf("verify copy: %w", err)
	}
	return h.Sum(nil), n, nil
}
