package fileop_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"mediarenamer/internal/fileop"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    fileop.Mode
		wantErr bool
	}{
		{"test", fileop.ModeTest, false},
		{"MOVE", fileop.ModeMove, false},
		{" copy ", fileop.ModeCopy, false},
		{"Symlink", fileop.ModeSymlink, false},
		{"hardlink", fileop.ModeTest, true},
		{"", fileop.ModeTest, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fileop.ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
	for _, m := range fileop.Modes() {
		if round, err := fileop.ParseMode(m.String()); err != nil || round != m {
			t.Errorf("round trip of %v failed: %v, %v", m, round, err)
		}
	}
}

func TestApplyTestModeTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.mkv", "data")
	dst := filepath.Join(dir, "out", "Movies", "A (2020)", "A (2020).mkv")

	if err := fileop.New(fileop.ModeTest).Apply(context.Background(), src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("test mode must not create directories")
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must remain: %v", err)
	}
}

func TestApplyMoveCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.mkv", "data")
	dst := filepath.Join(dir, "out", "TV", "Show", "Season 1", "Show - s01e01.mkv")

	if err := fileop.New(fileop.ModeMove).Apply(context.Background(), src, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if _, err := os.Stat(src); !errors.Is(err, fs.ErrNotExist) {
		t.Fatal("source should be gone after move")
	}
	got, err := os.ReadFile(dst)
	if err != nil || string(got) != "data" {
		t.Fatalf("destination content = %q, %v", got, err)
	}
}

func TestApplyCopyPreservesSource(t *testing.T) {
	for _, verify := range []bool{false, true} {
		dir := t.TempDir()
		src := writeSource(t, dir, "a.mkv", "payload")
		dst := filepath.Join(dir, "out", "a.mkv")

		op := fileop.New(fileop.ModeCopy, fileop.WithVerifyCopies(verify))
		if err := op.Apply(context.Background(), src, dst); err != nil {
			t.Fatalf("Apply(verify=%v): %v", verify, err)
		}
		for _, path := range []string{src, dst} {
			got, err := os.ReadFile(path)
			if err != nil || string(got) != "payload" {
				t.Fatalf("%s content = %q, %v", path, got, err)
			}
		}
	}
}

func TestApplySymlinkUsesAbsoluteTarget(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.mkv", "data")
	dst := filepath.Join(dir, "out", "link.mkv")

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(wd, filepath.Join(dir, "a.mkv"))
	if err != nil {
		t.Skipf("temp dir not relative to working dir: %v", err)
	}

	if err := fileop.New(fileop.ModeSymlink).Apply(context.Background(), rel, dst); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	target, err := os.Readlink(dst)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if !filepath.IsAbs(target) {
		t.Fatalf("symlink target %q is not absolute", target)
	}
	want, err := filepath.EvalSymlinks(filepath.Join(dir, "a.mkv"))
	if err != nil {
		t.Fatal(err)
	}
	if target != want {
		t.Fatalf("symlink target = %q, want %q", target, want)
	}
}

func TestApplySkipsExistingDestination(t *testing.T) {
	for _, mode := range fileop.Modes() {
		t.Run(mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeSource(t, dir, "a.mkv", "new")
			dst := writeSource(t, dir, "b.mkv", "old")

			err := fileop.New(mode).Apply(context.Background(), src, dst)
			if !errors.Is(err, fileop.ErrDestinationExists) {
				t.Fatalf("expected ErrDestinationExists, got %v", err)
			}
			var existsErr *fileop.ExistsError
			if !errors.As(err, &existsErr) || existsErr.Path != dst {
				t.Fatalf("expected ExistsError for %s, got %v", dst, err)
			}
			got, _ := os.ReadFile(dst)
			if string(got) != "old" {
				t.Fatalf("destination modified: %q", got)
			}
			if _, err := os.Stat(src); err != nil {
				t.Fatalf("source touched: %v", err)
			}
		})
	}
}

func TestApplyTreatsDanglingSymlinkAsExisting(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.mkv", "data")
	dst := filepath.Join(dir, "dangling.mkv")
	if err := os.Symlink(filepath.Join(dir, "missing"), dst); err != nil {
		t.Fatal(err)
	}
	if err := fileop.New(fileop.ModeCopy).Apply(context.Background(), src, dst); !errors.Is(err, fileop.ErrDestinationExists) {
		t.Fatalf("expected ErrDestinationExists, got %v", err)
	}
}

func TestApplyHonoursCancelledContext(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "a.mkv", "data")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := fileop.New(fileop.ModeMove).Apply(ctx, src, filepath.Join(dir, "b.mkv")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
