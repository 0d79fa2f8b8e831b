package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/nxtscape/linux-packager/internal/domain/release"
)

// Repository defines persistence operations for release reports.
type Repository interface {
	Load(ctx context.Context) (*release.Report, error)
	Save(ctx context.Context, r *release.Report) error
}

// FileRepository stores one release report in a YAML file.
type FileRepository struct {
	// path is the filesystem location of the report.
	path string
	// mu serializes access to the file.
	mu sync.Mutex
}

// ErrNotFound is returned when the report file does not exist yet.
var ErrNotFound = errors.New("report not found")

// filePermissions is the mode of written reports; they are published with the artifacts.
const filePermissions = 0o644

// NewFileRepository creates a repository reading and writing YAML at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{
		path: filepath.Clean(path),
	}
}

// Path returns the report file location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the report from disk.
func (r *FileRepository) Load(_ context.Context) (*release.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	contents, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read report: %w", err)
	}

	var rep release.Report
	if err = yaml.Unmarshal(contents, &rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}

	return &rep, nil
}

// Save writes the report, replacing any previous one.
func (r *FileRepository) Save(_ context.Context, rep *release.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	if err = os.WriteFile(r.path, data, filePermissions); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
