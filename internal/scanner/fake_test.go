package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/rubychat/gamescan/internal/models"
	"github.com/rubychat/gamescan/pkg/process"
)

// fakeSource serves scripted snapshots; the last one repeats
type fakeSource struct {
	mu     sync.Mutex
	frames [][]string
	errs   []error
	calls  int
}

func newFakeSource(frames ...[]string) *fakeSource {
	return &fakeSource{frames: frames}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Snapshot(context.Context) (*process.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.calls
	f.calls++

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}

	table := process.NewTable(false)
	if len(f.frames) == 0 {
		return table, nil
	}
	if i >= len(f.frames) {
		i = len(f.frames) - 1
	}
	for _, name := range f.frames[i] {
		table.Add(name, "")
	}
	return table, nil
}

func (f *fakeSource) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// set replaces what every following snapshot returns
func (f *fakeSource) set(names ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = [][]string{names}
	f.errs = nil
}

type memErrorStore struct {
	mu   sync.Mutex
	logs []models.ErrorLog
}

func (m *memErrorStore) CreateErrorLog(l *models.ErrorLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memErrorStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

var errSnapshot = errors.New("proc unreadable")

var hollowKnight = models.DetectableTarget{
	ID:   "hk",
	Name: "Hollow Knight",
	Executables: []models.Executable{
		{OS: "linux", Name: "hollow_knight.x86_64"},
		{OS: "linux", Name: "Hollow Knight"},
	},
}

var celeste = models.DetectableTarget{
	ID:          "celeste",
	Name:        "Celeste",
	Executables: []models.Executable{{OS: "linux", Name: "Celeste"}},
}
