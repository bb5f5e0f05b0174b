package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/facetfilter/internal/dataset"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	assert.NotEmpty(t, info.Version)
	assert.LessOrEqual(t, len(info.GitCommit), 7)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Equal(t, dataset.SupportedFormats, info.DatasetFormats)
}

func TestInfoString(t *testing.T) {
	info := GetInfo()
	s := info.String()

	assert.Contains(t, s, "facetfilter")
	assert.Contains(t, s, info.Version)
	assert.Contains(t, s, info.GoVersion)
	assert.Contains(t, s, info.Platform)
	assert.Contains(t, s, "dataset formats: "+dataset.SupportedFormats)
}

func TestFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("fills defaults", func(t *testing.T) {
		info := Info{Version: "dev", GitCommit: "none", BuildDate: "unknown"}
		fromBuildInfo(&info, bi)

		assert.Equal(t, "v1.4.0", info.Version)
		assert.Equal(t, "0123456789abcdef", info.GitCommit)
		assert.Equal(t, "2026-01-02T03:04:05Z", info.BuildDate)
	})

	t.Run("keeps injected values", func(t *testing.T) {
		info := Info{Version: "v2.0.0", GitCommit: "feedbee", BuildDate: "today"}
		fromBuildInfo(&info, bi)

		assert.Equal(t, "v2.0.0", info.Version)
		assert.Equal(t, "feedbee", info.GitCommit)
		assert.Equal(t, "today", info.BuildDate)
	})

	t.Run("ignores devel version", func(t *testing.T) {
		info := Info{Version: "dev"}
		fromBuildInfo(&info, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

		assert.Equal(t, "dev", info.Version)
	})
}

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"long SHA truncated", "abc1234def5678", "abc1234"},
		{"exact 7 unchanged", "abc1234", "abc1234"},
		{"short unchanged", "abc", "abc"},
		{"empty unchanged", "", ""},
		{"none unchanged", "none", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortCommit(tt.input))
		})
	}
}
