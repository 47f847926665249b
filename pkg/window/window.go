// Package window looks up the currently focused desktop window.
// It is informational only; activity detection never depends on it.
package window

import (
	"errors"
	"os"
)

// ErrUnavailable is returned when no supported display server is reachable
var ErrUnavailable = errors.New("no supported display server")

// ErrNoFocus is returned when the display server reports no focused window
var ErrNoFocus = errors.New("no active window found")

// Info describes the focused window
type Info struct {
	Title    string `json:"title"`
	AppName  string `json:"app_name"`
	Class    string `json:"class"`
	PID      uint32 `json:"pid,omitempty"`
	WindowID uint32 `json:"window_id"`
	Source   string `json:"source"`
}

// Finder returns the focused window from one display server
type Finder interface {
	Focused() (*Info, error)
	Name() string
}

// Default picks the finder for the current session. Wayland compositors
// without their own finder fall back to XWayland when $DISPLAY is set.
func Default() (Finder, error) {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		switch {
		case os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "":
			return Hyprland{}, nil
		case os.Getenv("SWAYSOCK") != "":
			return Sway{}, nil
		}
	}
	if os.Getenv("DISPLAY") == "" {
		return nil, ErrUnavailable
	}
	return X11{}, nil
}

// Focused is a shortcut for Default().Focused()
func Focused() (*Info, error) {
	f, err := Default()
	if err != nil {
		return nil, err
	}
	return f.Focused()
}
