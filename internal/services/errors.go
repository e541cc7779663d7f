package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Markers classify run-level failures. Per-file problems never surface as
// errors; they become outcomes on the run report.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrLookup        = errors.New("lookup error")
	ErrPreflight     = errors.New("preflight error")
	ErrFileOperation = errors.New("file operation error")
)

// Exit codes returned by the CLI for each marker.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitLookup        = 3
	ExitPreflight     = 4
	ExitInterrupted   = 130
)

// Wrap tags err with marker and prefixes the step, operation and message that
// were in flight. A nil marker leaves the error unclassified.
func Wrap(marker error, step, operation, message string, err error) error {
	detail := buildDetail(step, operation, message)
	switch {
	case marker == nil && err == nil:
		return errors.New(detail)
	case marker == nil:
		return fmt.Errorf("%s: %w", detail, err)
	case err == nil:
		return fmt.Errorf("%w: %s", marker, detail)
	default:
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrLookup):
		return ExitLookup
	case errors.Is(err, ErrPreflight):
		return ExitPreflight
	default:
		return ExitFailure
	}
}

func buildDetail(step, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{step, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "run failed"
	}
	return strings.Join(parts, ": ")
}
