package process

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ProcfsSource reads process names straight from a /proc file system
type ProcfsSource struct {
	root     string
	foldCase bool
}

// NewProcfsSource creates a source rooted at root ("/proc" when empty)
func NewProcfsSource(root string) *ProcfsSource {
	if root == "" {
		root = "/proc"
	}
	return &ProcfsSource{root: root, foldCase: DefaultFoldCase}
}

func (s *ProcfsSource) Name() string {
	return "procfs"
}

func (s *ProcfsSource) Snapshot(ctx context.Context) (*Table, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.root)
	}

	table := NewTable(s.foldCase)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !entry.IsDir() {
			continue
		}

		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		name, argv0, ok := s.readProcess(pid)
		if !ok {
			continue
		}
		table.Add(name, argv0)
	}

	return table, nil
}

// readProcess returns comm and argv[0]; processes that exit mid-scan are skipped.
func (s *ProcfsSource) readProcess(pid int) (string, string, bool) {
	dir := filepath.Join(s.root, strconv.Itoa(pid))

	name := ""
	if data, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		name = strings.TrimSpace(string(data))
	} else if data, err := os.ReadFile(filepath.Join(dir, "stat")); err == nil {
		name = parseStatName(string(data))
	} else {
		return "", "", false
	}

	argv0 := ""
	if data, err := os.ReadFile(filepath.Join(dir, "cmdline")); err == nil {
		if i := strings.IndexByte(string(data), 0); i >= 0 {
			argv0 = string(data[:i])
		} else {
			argv0 = string(data)
		}
	}

	return name, argv0, true
}

// parseStatName extracts the command name between the first '(' and the last ')'
func parseStatName(stat string) string {
	start := strings.Index(stat, "(")
	end := strings.LastIndex(stat, ")")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return stat[start+1 : end]
}
