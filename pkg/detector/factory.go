package detector

import (
	"fmt"
	"os"

	"github.com/rubychat/gamescan/pkg/process"
)

const (
	SourceAuto   = "auto"
	SourceProcfs = "procfs"
	SourcePsutil = "psutil"
)

// NewSource returns the process source named by kind.
// "auto" prefers /proc when it is readable and falls back to gopsutil.
func NewSource(kind string) (process.Source, error) {
	switch kind {
	case "", SourceAuto:
		if process.ProcfsAvailable() {
			return process.NewProcfsSource(""), nil
		}
		return process.NewPsutilSource(), nil
	case SourceProcfs:
		if !process.ProcfsAvailable() {
			return nil, fmt.Errorf("procfs source requested but /proc is not available")
		}
		return process.NewProcfsSource(""), nil
	case SourcePsutil:
		return process.NewPsutilSource(), nil
	default:
		return nil, fmt.Errorf("unknown process source %q (want auto, procfs or psutil)", kind)
	}
}

// DetectDisplayServer reports the graphical session type from the environment
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}
