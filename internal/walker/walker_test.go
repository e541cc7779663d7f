package walker_test

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mediarenamer/internal/walker"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", path, err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func collect(t *testing.T, root string, w *walker.Walker) ([]string, []error) {
	t.Helper()
	var paths []string
	var errs []error
	for i := 0; i < 1000; i++ {
		entry, err := w.Next()
		if errors.Is(err, io.EOF) {
			return paths, errs
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rel, relErr := filepath.Rel(root, entry.Path)
		if relErr != nil {
			t.Fatalf("rel %s: %v", entry.Path, relErr)
		}
		paths = append(paths, filepath.ToSlash(rel))
	}
	t.Fatal("walker did not terminate")
	return nil, nil
}

func TestWalkEmitsFrontierOrderAndSkipsExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.mkv",
		"Show/e01.mkv",
		"Show/Sample/s.mkv",
		"Movie/m.mkv",
	)

	w := walker.New(root, walker.WithExcludedDirs("Sample", "sample"))
	got, errs := collect(t, root, w)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"Movie", "Show", "a.mkv", "Movie/m.mkv", "Show/e01.mkv"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries:\n got %v\nwant %v", got, want)
	}
}

func TestWalkReportsDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "dir/file.mkv")

	w := walker.New(root)
	entry, err := w.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if !entry.IsDir || entry.Path != filepath.Join(root, "dir") {
		t.Fatalf("unexpected first entry: %#v", entry)
	}
	entry, err = w.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if entry.IsDir || entry.Path != filepath.Join(root, "dir", "file.mkv") {
		t.Fatalf("unexpected second entry: %#v", entry)
	}
}

func TestWalkDepthBudget(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "f1", "a/f2", "a/b/f3")

	tests := []struct {
		name  string
		depth int
		want  []string
	}{
		{name: "zero", depth: 0, want: []string{"a", "f1"}},
		{name: "one", depth: 1, want: []string{"a", "f1"}},
		{name: "two", depth: 2, want: []string{"a", "f1", "a/b", "a/f2"}},
		{name: "three", depth: 3, want: []string{"a", "f1", "a/b", "a/f2", "a/b/f3"}},
		{name: "unbounded", depth: -1, want: []string{"a", "f1", "a/b", "a/f2", "a/b/f3"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, errs := collect(t, root, walker.New(root, walker.WithMaxDepth(tc.depth)))
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("unexpected entries:\n got %v\nwant %v", got, tc.want)
			}
		})
	}
}

func TestWalkDepthIsFrontierBased(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "x/x1", "y/y1")

	// Both x and y sit directly below the root, but only the first cursor
	// after the root listing is read before the budget runs out.
	got, errs := collect(t, root, walker.New(root, walker.WithMaxDepth(2)))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"x", "y", "x/x1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries:\n got %v\nwant %v", got, want)
	}
}

func TestWalkRootNotDirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "movie.mkv")
	writeTree(t, root, "movie.mkv")

	w := walker.New(file)
	_, err := w.Next()
	if !errors.Is(err, walker.ErrNotADirectory) {
		t.Fatalf("expected not-a-directory error, got %v", err)
	}
	var notDir *walker.NotADirectoryError
	if !errors.As(err, &notDir) || notDir.Path != file {
		t.Fatalf("expected NotADirectoryError for %s, got %#v", file, err)
	}
	for i := 0; i < 2; i++ {
		if _, err := w.Next(); !errors.Is(err, io.EOF) {
			t.Fatalf("expected EOF after root error, got %v", err)
		}
	}
}

func TestWalkMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	paths, errs := collect(t, root, walker.New(root))
	if len(paths) != 0 {
		t.Fatalf("expected no entries, got %v", paths)
	}
	if len(errs) != 1 || !errors.Is(errs[0], fs.ErrNotExist) {
		t.Fatalf("expected a single not-exist error, got %v", errs)
	}
}

func TestWalkContinuesAfterUnreadableDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks are bypassed for root")
	}
	root := t.TempDir()
	writeTree(t, root, "locked/secret.mkv", "open/visible.mkv")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got, errs := collect(t, root, walker.New(root))
	if len(errs) != 1 {
		t.Fatalf("expected one error element, got %v", errs)
	}
	var readErr *walker.ReadDirError
	if !errors.As(errs[0], &readErr) || readErr.Path != locked {
		t.Fatalf("expected ReadDirError for %s, got %v", locked, errs[0])
	}
	want := []string{"locked", "open", "open/visible.mkv"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries:\n got %v\nwant %v", got, want)
	}
}

func TestWalkFollowsDirectorySymlinks(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "root")
	target := filepath.Join(base, "target")
	writeTree(t, base, "target/t.mkv")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir root: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	w := walker.New(root)
	entry, err := w.Next()
	if err != nil {
		t.Fatalf("Next returned error: %v", err)
	}
	if !entry.IsDir {
		t.Fatalf("expected symlinked directory to be reported as a directory: %#v", entry)
	}
	got, errs := collect(t, root, w)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if want := []string{"link/t.mkv"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected entries:\n got %v\nwant %v", got, want)
	}
}
