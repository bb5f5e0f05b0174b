package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/hupe1980/facetfilter/internal/filter"
	"github.com/hupe1980/facetfilter/internal/output"
)

// Backend persists filter state between runs.
type Backend interface {
	Load() (filter.ActiveSet, error)
	Save(state filter.ActiveSet) error
}

// stateFile is the on-disk layout of a state file.
type stateFile struct {
	Filters filter.ActiveSet `json:"filters"`
}

// FileBackend stores the filter state as YAML:
//
//	filters:
//	- category: country
//	  entries:
//	  - active: true
//	    value: Brazil
type FileBackend struct {
	path   string
	logger *slog.Logger
}

// NewFileBackend returns a backend for the state file at path.
func NewFileBackend(path string, logger *slog.Logger) *FileBackend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &FileBackend{path: path, logger: logger}
}

// Path returns the state file path.
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the state file. A missing file yields an empty state.
func (b *FileBackend) Load() (filter.ActiveSet, error) {
	data, err := os.ReadFile(b.path) //nolint:gosec // path is user-provided state file
	if errors.Is(err, fs.ErrNotExist) {
		b.logger.Debug("no state file yet, starting empty", slog.String("path", b.path))
		return filter.NewActiveSet(), nil
	}

	if err != nil {
		return filter.ActiveSet{}, fmt.Errorf("reading state file: %w", err)
	}

	return ParseState(data)
}

// Save writes state to the state file, replacing it atomically.
func (b *FileBackend) Save(state filter.ActiveSet) error {
	data, err := MarshalState(state)
	if err != nil {
		return err
	}

	return output.NewFileWriter(b.path, output.WithLogger(b.logger)).Write(data)
}

// ParseState decodes state file contents. Empty input is an empty state.
func ParseState(data []byte) (filter.ActiveSet, error) {
	var sf stateFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return filter.ActiveSet{}, fmt.Errorf("parsing state file: %w", err)
	}

	return sf.Filters, nil
}

// MarshalState encodes state in the state file layout.
func MarshalState(state filter.ActiveSet) ([]byte, error) {
	data, err := output.Marshal(stateFile{Filters: state}, output.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}

	return data, nil
}

// Persister is an Observer that saves every new state through a Backend.
// Save failures are logged and kept for Err.
type Persister struct {
	backend Backend
	logger  *slog.Logger

	mu  sync.Mutex
	err error
}

// NewPersister creates a persister for backend.
func NewPersister(backend Backend, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Persister{backend: backend, logger: logger}
}

// FiltersChanged saves curr.
func (p *Persister) FiltersChanged(_, curr filter.ActiveSet) {
	err := p.backend.Save(curr)
	if err != nil {
		p.logger.Error("saving filter state failed", slog.String("error", err.Error()))
	}

	p.mu.Lock()
	if p.err == nil {
		p.err = err
	}
	p.mu.Unlock()
}

// Err returns the first save error, if any. A later successful save
// does not clear it.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}
