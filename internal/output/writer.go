package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Writer is a destination for one rendered view.
type Writer interface {
	Write(data []byte) error
}

// StreamWriter writes views to an io.Writer such as a command's stdout.
type StreamWriter struct {
	w io.Writer
}

// NewStreamWriter returns a writer for w, or for os.Stdout when w is nil.
func NewStreamWriter(w io.Writer) *StreamWriter {
	if w == nil {
		w = os.Stdout
	}

	return &StreamWriter{w: w}
}

func (s *StreamWriter) Write(data []byte) error {
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

// Destination returns a FileWriter for path, or a StreamWriter for stream
// when path is empty.
func Destination(path string, stream io.Writer, opts ...FileWriterOption) Writer {
	if path == "" {
		return NewStreamWriter(stream)
	}

	return NewFileWriter(path, opts...)
}

// FileWriter replaces a file's contents atomically: data is staged in a
// hidden file next to the target, synced, and renamed over it. Readers
// never see a partial file.
type FileWriter struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithPermissions sets the mode of the written file. The default is 0644.
func WithPermissions(perm os.FileMode) FileWriterOption {
	return func(fw *FileWriter) { fw.perm = perm }
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) FileWriterOption {
	return func(fw *FileWriter) {
		if logger != nil {
			fw.logger = logger
		}
	}
}

// NewFileWriter returns a writer for the file at path.
func NewFileWriter(path string, opts ...FileWriterOption) *FileWriter {
	fw := &FileWriter{path: path, perm: 0o644, logger: slog.Default()}
	for _, opt := range opts {
		opt(fw)
	}

	return fw
}

// Path returns the target file.
func (fw *FileWriter) Path() string {
	return fw.path
}

// Write replaces the file with data, creating parent directories.
func (fw *FileWriter) Write(data []byte) error {
	staged, err := fw.stage(data)
	if err != nil {
		return err
	}

	if err := os.Rename(staged, fw.path); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("replacing file %s: %w", fw.path, err)
	}

	fw.logger.Debug("wrote file", slog.String("path", fw.path), slog.Int("bytes", len(data)))

	return nil
}

// stage writes data to a temporary sibling of the target and returns its
// name. The temporary file is removed on failure.
func (fw *FileWriter) stage(data []byte) (name string, err error) {
	dir := filepath.Dir(fw.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(fw.path)+".*")
	if err != nil {
		return "", fmt.Errorf("staging file %s: %w", fw.path, err)
	}

	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	if err = f.Sync(); err != nil {
		return "", fmt.Errorf("syncing file %s: %w", fw.path, err)
	}

	if err = f.Chmod(fw.perm); err != nil {
		return "", fmt.Errorf("setting permissions on %s: %w", fw.path, err)
	}

	if err = f.Close(); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fw.path, err)
	}

	return f.Name(), nil
}
