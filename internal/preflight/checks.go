package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"mediarenamer/internal/lookup/tvdb"
)

// CheckInput verifies that the input path exists. Files and directories are
// both accepted.
func CheckInput(path string) Result {
	const name = "Input"

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (directory)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (file)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := uint64(st.Bavail) * uint64(st.Bsize)
	detail := fmt.Sprintf("%s free, %s required", humanize.IBytes(free), humanize.IBytes(minBytes))
	if free < minBytes {
		return Result{Name: name, Detail: detail}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckTVDB verifies that the TVDB API accepts the key. It uses a 10-second
// timeout and a single login attempt.
func CheckTVDB(ctx context.Context, baseURL, apiKey string) Result {
	const name = "TVDB"

	if apiKey == "" {
		return Result{Name: name, Detail: "missing api key"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := tvdb.New(apiKey, baseURL, tvdb.WithTimeout(10*time.Second))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := client.Authenticate(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLookupError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Authenticated"}
}

func summarizeLookupError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "login timed out (TVDB unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "login timed out (TVDB unreachable)"
	}
	var httpErr *tvdb.HTTPError
	if errors.As(err, &httpErr) && (httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden) {
		return "auth failed (invalid api key)"
	}
	return fmt.Sprintf("login failed (%v)", err)
}
