package walker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"mediarenamer/internal/logging"
)

// ErrNotADirectory is matched by the error returned when the root is not a directory.
var ErrNotADirectory = errors.New("not a directory")

// NotADirectoryError reports a walk root that exists but is not a directory.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("the file at %s is not a directory", e.Path)
}

func (e *NotADirectoryError) Is(target error) bool { return target == ErrNotADirectory }

// ReadDirError wraps a failure to list a directory during the walk.
type ReadDirError struct {
	Path string
	Err  error
}

func (e *ReadDirError) Error() string {
	return fmt.Sprintf("read directory %s: %v", e.Path, e.Err)
}

func (e *ReadDirError) Unwrap() error { return e.Err }

// Entry is one filesystem entry discovered by the walk.
type Entry struct {
	Path  string
	IsDir bool
}

// cursor is the listing of one directory and the position of the next unread entry.
type cursor struct {
	dir     string
	entries []os.DirEntry
	next    int
	err     error
}

// Walker lazily lists a directory tree. Directories are visited through a
// frontier queue: the cursor at the front is read one entry at a time and
// every subdirectory found gets a cursor at the back.
type Walker struct {
	queue     []*cursor
	excluded  map[string]struct{}
	limited   bool
	remaining int
	done      bool
	logger    *slog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithMaxDepth bounds the walk. The budget is decremented every time a
// directory listing is exhausted and the walk stops once it reaches zero, so
// 0 and 1 both limit the walk to the root listing. Negative values mean
// unbounded.
func WithMaxDepth(depth int) Option {
	return func(w *Walker) {
		if depth < 0 {
			w.limited = false
			return
		}
		w.limited = true
		w.remaining = depth
	}
}

// WithExcludedDirs skips directories whose base name matches one of names exactly.
func WithExcludedDirs(names ...string) Option {
	return func(w *Walker) {
		for _, name := range names {
			if name == "" {
				continue
			}
			w.excluded[name] = struct{}{}
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logging.NewComponentLogger(logger, "walker")
		}
	}
}

// New prepares a walk rooted at root. The root listing is read immediately;
// failures surface as the first element returned by Next.
func New(root string, opts ...Option) *Walker {
	w := &Walker{
		excluded: make(map[string]struct{}),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	info, err := os.Stat(root)
	switch {
	case err != nil:
		w.queue = append(w.queue, &cursor{dir: root, err: err})
	case !info.IsDir():
		w.queue = append(w.queue, &cursor{dir: root, err: &NotADirectoryError{Path: root}})
	default:
		w.queue = append(w.queue, openCursor(root))
	}
	return w
}

// readDir is swapped in tests to simulate listings that fail partway.
var readDir = os.ReadDir

// openCursor lists dir. A listing that fails partway keeps the entries read
// before the failure; the error is reported after them.
func openCursor(dir string) *cursor {
	entries, err := readDir(dir)
	if err != nil {
		return &cursor{dir: dir, entries: entries, err: &ReadDirError{Path: dir, Err: err}}
	}
	return &cursor{dir: dir, entries: entries}
}

// Next returns the next entry of the walk. A non-nil error other than io.EOF
// describes a directory that could not be listed; the walk continues on the
// following call. io.EOF marks the end of the walk.
func (w *Walker) Next() (Entry, error) {
	for !w.done && len(w.queue) > 0 {
		cur := w.queue[0]

		// The front cursor stays in place while it still has entries.
		if cur.next < len(cur.entries) {
			dirEntry := cur.entries[cur.next]
			cur.next++
			entry := Entry{Path: filepath.Join(cur.dir, dirEntry.Name())}
			entry.IsDir = isDir(entry.Path, dirEntry)
			if entry.IsDir {
				if w.isExcluded(dirEntry.Name()) {
					w.logger.Debug("ignoring excluded directory", logging.String("directory", entry.Path))
					continue
				}
				w.logger.Debug("adding directory to walk queue", logging.String("directory", entry.Path))
				w.queue = append(w.queue, openCursor(entry.Path))
			}
			return entry, nil
		}

		w.queue = w.queue[1:]
		if cur.err != nil {
			return Entry{}, cur.err
		}
		if w.limited {
			w.remaining--
			if w.remaining <= 0 {
				w.logger.Debug("depth budget exhausted", logging.String("directory", cur.dir))
				w.done = true
			}
		}
	}
	w.done = true
	w.queue = nil
	return Entry{}, io.EOF
}

func (w *Walker) isExcluded(name string) bool {
	_, skip := w.excluded[name]
	return skip
}

// isDir follows symbolic links so links to directories are walked.
func isDir(path string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
