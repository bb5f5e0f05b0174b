package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateYAML = "filters:\n- category: country\n  entries: []\n"

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestStreamWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStreamWriter(&buf).Write([]byte(stateYAML)))
	assert.Equal(t, stateYAML, buf.String())

	err := NewStreamWriter(brokenWriter{}).Write([]byte("x"))
	assert.ErrorContains(t, err, "pipe closed")

	assert.NotNil(t, NewStreamWriter(nil).w)
}

func TestDestination(t *testing.T) {
	var buf bytes.Buffer

	_, isStream := Destination("", &buf).(*StreamWriter)
	assert.True(t, isStream)

	path := filepath.Join(t.TempDir(), "visible.yaml")
	fw, isFile := Destination(path, &buf).(*FileWriter)
	require.True(t, isFile)
	assert.Equal(t, path, fw.Path())
}

func TestFileWriter(t *testing.T) {
	tests := []struct {
		name     string
		rel      string
		opts     []FileWriterOption
		wantPerm os.FileMode
	}{
		{name: "default permissions", rel: "state.yaml", wantPerm: 0o644},
		{name: "nested directories", rel: filepath.Join("a", "b", "state.yaml"), wantPerm: 0o644},
		{name: "custom permissions", rel: "private.yaml", opts: []FileWriterOption{WithPermissions(0o600)}, wantPerm: 0o600},
		{name: "nil logger keeps default", rel: "log.yaml", opts: []FileWriterOption{WithLogger(nil)}, wantPerm: 0o644},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.rel)

			fw := NewFileWriter(path, tt.opts...)
			require.NotNil(t, fw.logger)
			require.NoError(t, fw.Write([]byte(stateYAML)))

			got, err := os.ReadFile(path) //nolint:gosec // test
			require.NoError(t, err)
			assert.Equal(t, stateYAML, string(got))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPerm, info.Mode().Perm())
		})
	}
}

func TestFileWriter_ReplacesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	fw := NewFileWriter(path)
	require.NoError(t, fw.Write([]byte("one")))
	require.NoError(t, fw.Write([]byte("two")))

	got, err := os.ReadFile(path) //nolint:gosec // test
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "staged files must not be left behind")
	assert.Equal(t, "state.yaml", entries[0].Name())
}

func TestFileWriter_TargetIsDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "taken")
	require.NoError(t, os.Mkdir(target, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o600))

	err := NewFileWriter(target).Write([]byte("x"))
	require.ErrorContains(t, err, "replacing file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged file is removed after a failed rename")
}

func TestFileWriter_UnwritableParent(t *testing.T) {
	err := NewFileWriter("/dev/null/impossible/path.yaml").Write([]byte("data"))
	assert.ErrorContains(t, err, "creating directory")
}
