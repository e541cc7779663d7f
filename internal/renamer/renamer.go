package renamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"mediarenamer/internal/fileop"
	"mediarenamer/internal/logging"
	"mediarenamer/internal/lookup"
	"mediarenamer/internal/media"
	"mediarenamer/internal/parser"
	"mediarenamer/internal/pathutil"
	"mediarenamer/internal/services"
	"mediarenamer/internal/textutil"
	"mediarenamer/internal/walker"
)

// Dependencies are the collaborators of a Renamer. Recorder, Logger and Clock
// are optional.
type Dependencies struct {
	Parser       *parser.Parser
	Searcher     lookup.Searcher
	Operator     *fileop.Operator
	Recorder     Recorder
	Logger       *slog.Logger
	Extensions   []string
	ExcludedDirs []string
	Clock        func() time.Time
}

// Request names the input and output of one run. A nil MaxDepth walks the
// whole input tree.
type Request struct {
	Input    string
	Output   string
	MaxDepth *int
}

// Renamer runs the rename pipeline.
type Renamer struct {
	parser     *parser.Parser
	searcher   lookup.Searcher
	operator   *fileop.Operator
	recorder   Recorder
	logger     *slog.Logger
	extensions map[string]struct{}
	excluded   []string
	now        func() time.Time
}

// New validates deps and builds a Renamer.
func New(deps Dependencies) (*Renamer, error) {
	switch {
	case deps.Parser == nil:
		return nil, errors.New("renamer: parser is required")
	case deps.Searcher == nil:
		return nil, errors.New("renamer: searcher is required")
	case deps.Operator == nil:
		return nil, errors.New("renamer: operator is required")
	}
	r := &Renamer{
		parser:     deps.Parser,
		searcher:   deps.Searcher,
		operator:   deps.Operator,
		recorder:   deps.Recorder,
		logger:     logging.NewComponentLogger(deps.Logger, "renamer"),
		extensions: make(map[string]struct{}, len(deps.Extensions)),
		excluded:   append([]string(nil), deps.ExcludedDirs...),
		now:        deps.Clock,
	}
	if r.now == nil {
		r.now = time.Now
	}
	for _, ext := range deps.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			r.extensions[ext] = struct{}{}
		}
	}
	return r, nil
}

// Run processes every matching file under req.Input. The returned report is
// non-nil whenever the run started, including when an error ends it early.
func (r *Renamer) Run(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	report := newReport(runID, r.operator.Mode().String(), req.Input, req.Output, r.now())
	logger.Info("run started",
		logging.String("input", req.Input),
		logging.String("output", req.Output),
		logging.String("mode", report.Mode))
	r.record(logger, func(rec Recorder) error { return rec.BeginRun(ctx, report) })
	defer func() {
		report.FinishedAt = r.now()
		// The run is recorded as finished even when ctx was cancelled.
		finishCtx := context.WithoutCancel(ctx)
		r.record(logger, func(rec Recorder) error { return rec.FinishRun(finishCtx, report) })
	}()

	authCtx := services.WithStep(ctx, "authenticate")
	if err := r.searcher.Authenticate(authCtx); err != nil {
		return report, services.Wrap(services.ErrLookup, "authenticate", "login", "lookup authentication failed; check tvdb.api_key", err)
	}

	// The whole input is listed before the first file operation so files
	// moved into an output directory nested under the input are not walked
	// again.
	files, err := r.collect(services.WithStep(ctx, "scan"), req)
	if err != nil {
		return report, err
	}
	logger.Debug("files collected", logging.Int("files", len(files)))

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := r.ProcessFile(ctx, path, req.Output)
		if err != nil {
			return report, err
		}
		report.add(result)
		r.record(logger, func(rec Recorder) error { return rec.RecordFile(ctx, runID, result) })
	}

	logger.Info("run complete",
		logging.Int("files", report.Total()),
		logging.Int("done", report.Succeeded()),
		logging.Int("skipped", report.Skipped()),
		logging.Int("failed", report.Failures()),
		logging.Duration("duration", r.now().Sub(report.StartedAt)))
	return report, nil
}

// collect returns the files to process in walk order. A regular file input is
// taken on its own; anything else is walked.
func (r *Renamer) collect(ctx context.Context, req Request) ([]string, error) {
	logger := logging.WithContext(ctx, r.logger)

	if info, err := os.Stat(req.Input); err == nil && info.Mode().IsRegular() {
		if !r.wanted(req.Input) {
			logging.WarnWithContext(logger, "input extension not configured", "extension_skipped",
				logging.String("source", req.Input),
				logging.String(logging.FieldErrorHint, "add the extension to scan.extensions"))
			return nil, nil
		}
		return []string{req.Input}, nil
	}

	opts := []walker.Option{
		walker.WithExcludedDirs(r.excluded...),
		walker.WithLogger(r.logger),
	}
	if req.MaxDepth != nil {
		opts = append(opts, walker.WithMaxDepth(*req.MaxDepth))
	}
	w := walker.New(req.Input, opts...)

	var files []string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry, err := w.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logging.WarnWithContext(logger, "directory traversal error", "walk_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the directory exists and is readable"),
				logging.String(logging.FieldImpact, "directory contents skipped"))
			continue
		}
		if entry.IsDir {
			continue
		}
		// Stat follows symlinks so linked media files are picked up.
		info, err := os.Stat(entry.Path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !r.wanted(entry.Path) {
			logger.Debug("ignoring file with unconfigured extension", logging.String("source", entry.Path))
			continue
		}
		files = append(files, entry.Path)
	}
	return files, nil
}

func (r *Renamer) wanted(path string) bool {
	ext, ok := pathutil.Extension(path)
	if !ok {
		return false
	}
	_, match := r.extensions[strings.ToLower(ext)]
	return match
}

// ProcessFile parses, looks up and places a single file under output. The
// error is non-nil only when ctx was cancelled; every other problem is
// reported through the result's Outcome.
func (r *Renamer) ProcessFile(ctx context.Context, path, output string) (FileResult, error) {
	ctx = services.WithFile(ctx, path)
	result := FileResult{Source: path}

	logger := logging.WithContext(services.WithStep(ctx, "parse"), r.logger)
	parsed, ok := r.parser.Parse(path)
	if !ok {
		logging.WarnWithContext(logger, "could not parse filename", "parse_failed",
			logging.String(logging.FieldOutcome, string(OutcomeUnparsed)),
			logging.String(logging.FieldErrorHint, "add a tv or movie pattern that matches this name"))
		return withOutcome(result, OutcomeUnparsed, "could not parse filename"), nil
	}
	result.Kind = parsed.Identity.Kind().String()
	result.Title = parsed.Identity.Title()
	logger.Debug("parsed filename",
		logging.String("kind", result.Kind),
		logging.String("title", media.Label(parsed.Identity)))

	lookupCtx := services.WithStep(ctx, "lookup")
	logger = logging.WithContext(lookupCtx, r.logger)
	candidates, err := r.searcher.Search(lookupCtx, parsed.Identity.Title(), parsed.Identity.Kind())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		logging.ErrorWithContext(logger, "lookup failed", "lookup_failed",
			logging.Error(err),
			logging.String("title", result.Title),
			logging.String(logging.FieldOutcome, string(OutcomeLookupFailed)),
			logging.String(logging.FieldErrorHint, "check network access to the lookup provider"),
			logging.String(logging.FieldImpact, "file skipped"))
		return withOutcome(result, OutcomeLookupFailed, err.Error()), nil
	}
	if len(candidates) == 0 {
		logging.WarnWithContext(logger, "no lookup match", "lookup_no_match",
			logging.String("title", result.Title),
			logging.String(logging.FieldOutcome, string(OutcomeNoMatch)),
			logging.String(logging.FieldErrorHint, "adjust the filename or parser replacements"))
		return withOutcome(result, OutcomeNoMatch, fmt.Sprintf("no %s matches %q", result.Kind, result.Title)), nil
	}

	title := textutil.NormalizeTitle(candidates[0].Name)
	if title == "" {
		logging.WarnWithContext(logger, "lookup returned an unusable title", "invalid_title",
			logging.String("title", candidates[0].Name),
			logging.String(logging.FieldOutcome, string(OutcomeInvalidTitle)))
		return withOutcome(result, OutcomeInvalidTitle, fmt.Sprintf("title %q is not a valid path segment", candidates[0].Name)), nil
	}
	if score, ok := textutil.TitleSimilarity(result.Title, title); ok && score == 0 {
		logging.WarnWithContext(logger, "lookup title shares no words with parsed title", "lookup_title_mismatch",
			logging.String("parsed", result.Title),
			logging.String("matched", title),
			logging.String(logging.FieldErrorHint, "verify the destination or add a parser replacement"))
	}
	parsed = parsed.WithTitle(title)
	result.Title = title
	result.Destination = filepath.Join(output, parsed.Path())

	applyCtx := services.WithStep(ctx, "apply")
	logger = logging.WithContext(applyCtx, r.logger)
	if err := r.operator.Apply(applyCtx, path, result.Destination); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		if errors.Is(err, fileop.ErrDestinationExists) {
			logging.WarnWithContext(logger, "destination already exists", "destination_exists",
				logging.String("destination", result.Destination),
				logging.String(logging.FieldOutcome, string(OutcomeExists)),
				logging.String(logging.FieldErrorHint, "remove the existing file to replace it"))
			return withOutcome(result, OutcomeExists, "destination already exists"), nil
		}
		logging.ErrorWithContext(logger, "file operation failed", "file_operation_failed",
			logging.Error(err),
			logging.String("destination", result.Destination),
			logging.String(logging.FieldOutcome, string(OutcomeFailed)),
			logging.String(logging.FieldErrorHint, "check permissions and free space on the output"),
			logging.String(logging.FieldImpact, "file left in place"))
		return withOutcome(result, OutcomeFailed, err.Error()), nil
	}

	outcome := OutcomeDone
	if r.operator.Mode() == fileop.ModeTest {
		outcome = OutcomePlanned
	} else {
		logger.Info("file organized",
			logging.String("title", media.Label(parsed.Identity)),
			logging.String("destination", result.Destination),
			logging.String("mode", r.operator.Mode().String()))
	}
	return withOutcome(result, outcome, ""), nil
}

func withOutcome(result FileResult, outcome Outcome, message string) FileResult {
	result.Outcome = outcome
	result.Message = message
	return result
}

func (r *Renamer) record(logger *slog.Logger, fn func(Recorder) error) {
	if r.recorder == nil {
		return
	}
	if err := fn(r.recorder); err != nil {
		logging.WarnWithContext(logger, "history update failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
			logging.String(logging.FieldImpact, "run history incomplete"))
	}
}
