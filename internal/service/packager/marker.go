package packager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/nxtscape/linux-packager/internal/logger"
	"github.com/nxtscape/linux-packager/internal/staging"
)

// MarkerFilename is the run marker created in the tmp directory.
const MarkerFilename = "linux-packager.pid"

// errMarkerChanged means the marker was rewritten between the stale check and its removal.
var errMarkerChanged = errors.New("run marker changed while replacing it")

// runMarker guards the tmp directory against concurrent packager runs.
// The file holds "<pid> <executable>" of the owner.
type runMarker struct {
	path string
}

// acquireRunMarker claims tmpDir for this process. The marker is created
// exclusively; an existing marker naming a live process with the recorded
// executable refuses the run, anything else is stale and replaced.
func acquireRunMarker(ctx context.Context, tmpDir string) (*runMarker, error) {
	path := filepath.Join(tmpDir, MarkerFilename)

	if err := os.MkdirAll(tmpDir, staging.DirMode); err != nil {
		return nil, fmt.Errorf("create tmp directory: %w", err)
	}

	content := []byte(fmt.Sprintf("%d %s\n", os.Getpid(), selfExecutable()))

	err := createMarker(path, content)
	if errors.Is(err, fs.ErrExist) {
		err = replaceMarker(ctx, path, content)
	}

	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Run marker acquired", "path", path)

	return &runMarker{path: path}, nil
}

// replaceMarker takes over an existing marker when its owner is gone.
func replaceMarker(ctx context.Context, path string, content []byte) error {
	existing, err := os.ReadFile(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Released between the create attempt and the read.
	case err != nil:
		return fmt.Errorf("read run marker: %w", err)
	default:
		if owner, running := markerOwnerRunning(existing); running {
			logger.ErrorKV(ctx, "Another packager run is in progress", "pid", owner, "marker", path)
			return fmt.Errorf("%w: pid %d", ErrPackagerRunning, owner)
		}

		logger.InfoKV(ctx, "Replacing stale run marker", "path", path)

		if err = removeStaleMarker(path, existing); err != nil {
			if errors.Is(err, errMarkerChanged) {
				return fmt.Errorf("%w: %w", ErrPackagerRunning, err)
			}

			return err
		}
	}

	err = createMarker(path, content)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: marker %s was claimed concurrently", ErrPackagerRunning, path)
	}

	return err
}

// createMarker writes content to path, failing with fs.ErrExist when the marker is already there.
func createMarker(path string, content []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, staging.FileMode)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return err
		}

		return fmt.Errorf("create run marker: %w", err)
	}

	_, err = file.Write(content)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("write run marker: %w", err)
	}

	return nil
}

// removeStaleMarker moves the marker aside atomically and deletes it, provided
// it still holds the stale content. A marker rewritten in the meantime is put back.
func removeStaleMarker(path string, stale []byte) error {
	claimed := fmt.Sprintf("%s.%d.stale", path, os.Getpid())

	if err := os.Rename(path, claimed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("remove stale run marker: %w", err)
	}

	defer func() {
		_ = os.Remove(claimed)
	}()

	contents, err := os.ReadFile(claimed)
	if err != nil {
		return fmt.Errorf("read stale run marker: %w", err)
	}

	if !bytes.Equal(contents, stale) {
		_ = os.Link(claimed, path)
		return errMarkerChanged
	}

	return nil
}

// release removes the marker.
func (m *runMarker) release(ctx context.Context) {
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.WarnKV(ctx, "Failed to remove run marker", "path", m.path, "error", err)
	}
}

// markerOwnerRunning reports whether the marker content names a live process
// other than this one.
func markerOwnerRunning(contents []byte) (int, bool) {
	pid, executable, ok := parseMarker(string(contents))
	if !ok || pid == os.Getpid() {
		return pid, false
	}

	process, err := ps.FindProcess(pid)
	if err != nil || process == nil {
		return pid, false
	}

	return pid, process.Executable() == executable
}

func parseMarker(contents string) (int, string, bool) {
	fields := strings.Fields(contents)
	if len(fields) != 2 {
		return 0, "", false
	}

	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return 0, "", false
	}

	return pid, fields[1], true
}

// selfExecutable returns this process's name as go-ps reports it, so a
// later run compares like with like.
func selfExecutable() string {
	if process, err := ps.FindProcess(os.Getpid()); err == nil && process != nil {
		return process.Executable()
	}

	return filepath.Base(os.Args[0])
}
