package detector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubychat/gamescan/pkg/process"
)

func TestNewSource(t *testing.T) {
	src, err := NewSource(SourceAuto)
	require.NoError(t, err)
	require.NotNil(t, src)

	if process.ProcfsAvailable() {
		assert.Equal(t, SourceProcfs, src.Name())
	} else {
		assert.Equal(t, SourcePsutil, src.Name())
	}

	table, err := src.Snapshot(context.Background())
	if err != nil {
		t.Logf("Snapshot() error (may be expected in a sandbox): %v", err)
		return
	}
	assert.Greater(t, table.Len(), 0, "at least the test binary should be listed")
}

func TestNewSourceKinds(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{kind: SourcePsutil, want: SourcePsutil},
		{kind: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			src, err := NewSource(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, src.Name())
		})
	}
}

func TestDetectDisplayServer(t *testing.T) {
	tests := []struct {
		name           string
		sessionType    string
		waylandDisplay string
		x11Display     string
		expected       string
	}{
		{"Wayland session", "wayland", "wayland-0", "", "wayland"},
		{"X11 session", "x11", "", ":0", "x11"},
		{"Unknown session", "", "", "", "unknown"},
		{"Wayland display set", "", "wayland-1", "", "wayland"},
		{"X11 display set", "", "", ":1", "x11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_SESSION_TYPE", tt.sessionType)
			t.Setenv("WAYLAND_DISPLAY", tt.waylandDisplay)
			t.Setenv("DISPLAY", tt.x11Display)

			assert.Equal(t, tt.expected, DetectDisplayServer())
		})
	}
}
