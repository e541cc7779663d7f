package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst and returns the number of bytes written. dst is
// created with the source permissions and must not already exist.
func CopyFile(src, dst string) (int64, error) {
	return copyFile(src, dst, false)
}

// CopyFileVerified copies src to dst, then re-reads dst from disk and compares
// its size and SHA-256 with the source. dst is removed on mismatch.
func CopyFileVerified(src, dst string) (int64, error) {
	return copyFile(src, dst, true)
}

// afterCopy runs between closing dst and verifying it; tests use it to
// corrupt the copy.
var afterCopy = func(string) {}

func copyFile(src, dst string, verify bool) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, fmt.Errorf("copy %s: not a regular file", src)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	var reader io.Reader = in
	srcHasher := sha256.New()
	if verify {
		reader = io.TeeReader(in, srcHasher)
	}

	written, copyErr := io.Copy(out, reader)
	if copyErr == nil {
		copyErr = out.Sync()
	}
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dst)
		return written, fmt.Errorf("copy data: %w", copyErr)
	}

	if !verify {
		return written, nil
	}
	afterCopy(dst)
	if err := verifyCopy(dst, info.Size(), srcHasher.Sum(nil)); err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	return written, nil
}

// verifyCopy hashes dst as stored on disk.
func verifyCopy(dst string, wantSize int64, wantSum []byte) error {
	f, err := os.Open(dst)
	if err != nil {
		return fmt.Errorf("reopen destination: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		return fmt.Errorf("read destination: %w", err)
	}
	if size != wantSize {
		return fmt.Errorf("copy size mismatch: source %d bytes, destination %d bytes", wantSize, size)
	}
	if !bytes.Equal(hasher.Sum(nil), wantSum) {
		return errors.New("copy hash mismatch: destination differs from source")
	}
	return nil
}
