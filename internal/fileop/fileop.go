package fileop

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"mediarenamer/internal/fileutil"
	"mediarenamer/internal/logging"
)

// Mode selects how a source file is placed at its destination.
type Mode int

const (
	// ModeTest only logs what would happen.
	ModeTest Mode = iota
	ModeMove
	ModeCopy
	ModeSymlink
)

var modeNames = [...]string{"test", "move", "copy", "symlink"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

func (m Mode) verb() string {
	if m == ModeSymlink {
		return "link"
	}
	return m.String()
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{ModeTest, ModeMove, ModeCopy, ModeSymlink}
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(value string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for i, name := range modeNames {
		if name == normalized {
			return Mode(i), nil
		}
	}
	return ModeTest, fmt.Errorf("unknown action %q (want one of %s)", value, strings.Join(modeNames[:], ", "))
}

// ErrDestinationExists is matched by errors returned when the target path is taken.
var ErrDestinationExists = errors.New("destination already exists")

// ExistsError reports a destination that already exists.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDestinationExists, e.Path)
}

func (e *ExistsError) Is(target error) bool {
	return target == ErrDestinationExists
}

// Operator applies one mode to source/destination pairs. It never overwrites.
type Operator struct {
	mode   Mode
	verify bool
	logger *slog.Logger
}

// Option configures an Operator.
type Option func(*Operator)

// WithVerifyCopies enables SHA-256 verification of copied data.
func WithVerifyCopies(verify bool) Option {
	return func(o *Operator) { o.verify = verify }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Operator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an Operator for mode.
func New(mode Mode, opts ...Option) *Operator {
	o := &Operator{mode: mode, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.NewComponentLogger(o.logger, "fileop")
	return o
}

// Mode returns the configured mode.
func (o *Operator) Mode() Mode {
	return o.mode
}

// Apply places src at dst according to the mode. An existing destination
// (including a dangling symlink) yields an *ExistsError and nothing is touched.
// Parent directories of dst are created for every mode except test.
func (o *Operator) Apply(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Lstat(dst); err == nil {
		return &ExistsError{Path: dst}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}

	logger := logging.WithContext(ctx, o.logger)
	if o.mode == ModeTest {
		logger.Info(fmt.Sprintf("would move %s -> %s", src, dst),
			logging.String("source", src),
			logging.String("destination", dst),
			logging.String("mode", o.mode.String()))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}

	var err error
	switch o.mode {
	case ModeMove:
		err = o.move(logger, src, dst)
	case ModeCopy:
		err = o.copy(logger, src, dst)
	case ModeSymlink:
		err = symlink(src, dst)
	default:
		err = fmt.Errorf("unsupported mode %s", o.mode)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return &ExistsError{Path: dst}
		}
		return err
	}

	logger.Debug(o.mode.verb()+" complete",
		logging.String("source", src),
		logging.String("destination", dst))
	return nil
}

func (o *Operator) move(logger *slog.Logger, src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, unix.EXDEV) {
		return fmt.Errorf("move file: %w", err)
	}

	logger.Debug("rename crossed devices; copying instead", logging.String("source", src))
	if err := o.copy(logger, src, dst); err != nil {
		return fmt.Errorf("copy file across devices: %w", err)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove source after copy: %w", err)
	}
	return nil
}

func (o *Operator) copy(logger *slog.Logger, src, dst string) error {
	copyFn := fileutil.CopyFile
	if o.verify {
		copyFn = fileutil.CopyFileVerified
	}
	written, err := copyFn(src, dst)
	if err != nil {
		return err
	}
	logger.Debug("copied file",
		logging.String("destination", dst),
		logging.Bytes("size", uint64(written)),
		logging.Bool("verified", o.verify))
	return nil
}

// symlink links dst to the absolute, symlink-resolved form of src.
func symlink(src, dst string) error {
	abs, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	target, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}
