package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFinder struct {
	info *Info
	err  error
}

func (m *mockFinder) Focused() (*Info, error) { return m.info, m.err }
func (m *mockFinder) Name() string { return "mock" }

func TestMockFinder(t *testing.T) {
	var _ Finder = (*mockFinder)(nil)
	var _ Finder = X11{}

	m := &mockFinder{info: &Info{Title: "Hollow Knight", AppName: "hollow_knight.x86_64", PID: 42}}
	info, err := m.Focused()
	require.NoError(t, err)
	assert.Equal(t, uint32(42), info.PID)
}

func TestDefaultWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")

	_, err := Default()
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = Focused()
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDefaultWithDisplay(t *testing.T) {
	t.Setenv("DISPLAY", ":0")
	t.Setenv("WAYLAND_DISPLAY", "")

	f, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "x11", f.Name())
}

func TestParseWMClass(t *testing.T) {
	tests := []struct {
		data     string
		instance string
		class    string
	}{
		{"hollow_knight.x86_64\x00Hollow Knight\x00", "hollow_knight.x86_64", "Hollow Knight"},
		{"xterm\x00", "xterm", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		instance, class := parseWMClass([]byte(tt.data))
		assert.Equal(t, tt.instance, instance)
		assert.Equal(t, tt.class, class)
	}
}

func TestParseCardinal(t *testing.T) {
	assert.Equal(t, uint32(0x1234), parseCardinal([]byte{0x34, 0x12, 0, 0}))
	assert.Equal(t, uint32(0), parseCardinal([]byte{1, 2}))
	assert.Equal(t, "Celeste", trimNUL([]byte("Celeste\x00\x00")))
}

func TestDefaultWayland(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "wayland-1")
	t.Setenv("DISPLAY", "")

	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "abc")
	f, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "hyprland", f.Name())

	t.Setenv("HYPRLAND_INSTANCE_SIGNATURE", "")
	t.Setenv("SWAYSOCK", "/run/user/1000/sway-ipc.sock")
	f, err = Default()
	require.NoError(t, err)
	assert.Equal(t, "sway", f.Name())

	t.Setenv("SWAYSOCK", "")
	_, err = Default()
	assert.ErrorIs(t, err, ErrUnavailable)
}
