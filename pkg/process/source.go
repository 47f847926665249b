package process

import (
	"context"
	"os"
)

// Source takes a snapshot of the host process table
type Source interface {
	// Snapshot enumerates live processes once
	Snapshot(ctx context.Context) (*Table, error)

	// Name identifies the implementation ("procfs", "psutil")
	Name() string
}

// ProcfsAvailable reports whether a readable /proc exists
func ProcfsAvailable() bool {
	_, err := os.Stat("/proc/self/stat")
	return err == nil
}
