package process

import (
	"runtime"
	"strings"
)

// DefaultFoldCase reports whether executable names compare case-insensitively
// on the running platform. Windows and macOS file systems are case-insensitive.
var DefaultFoldCase = runtime.GOOS == "windows" || runtime.GOOS == "darwin"

// Table is a point-in-time set of executable names of live processes
type Table struct {
	names    map[string]struct{}
	foldCase bool
	count    int
}

// NewTable creates an empty table using the given case rule
func NewTable(foldCase bool) *Table {
	return &Table{
		names:    make(map[string]struct{}),
		foldCase: foldCase,
	}
}

// Add records one process under its short name and the basename of argv[0].
// Either may be empty.
func (t *Table) Add(name, argv0 string) {
	t.count++
	if name != "" {
		t.names[t.normalize(name)] = struct{}{}
	}
	if base := Basename(argv0); base != "" {
		t.names[t.normalize(base)] = struct{}{}
	}
}

// Has reports whether any live process runs under exactly this executable name
func (t *Table) Has(name string) bool {
	if t == nil || name == "" {
		return false
	}
	_, ok := t.names[t.normalize(name)]
	return ok
}

// Len returns the number of processes added
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

func (t *Table) normalize(name string) string {
	if t.foldCase {
		return strings.ToLower(name)
	}
	return name
}

// Basename strips any Unix or Windows directory prefix (Wine reports argv[0]
// as Z:\path\game.exe).
func Basename(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	return path
}
