package process

import (
	"context"

	"github.com/pkg/errors"
	ps "github.com/shirou/gopsutil/v3/process"
)

// PsutilSource enumerates processes through gopsutil, which covers Windows
// and macOS where /proc does not exist.
type PsutilSource struct {
	foldCase bool
}

func NewPsutilSource() *PsutilSource {
	return &PsutilSource{foldCase: DefaultFoldCase}
}

func (s *PsutilSource) Name() string {
	return "psutil"
}

func (s *PsutilSource) Snapshot(ctx context.Context) (*Table, error) {
	procs, err := ps.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list processes")
	}

	table := NewTable(s.foldCase)
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// exited or access denied
			continue
		}

		argv0 := ""
		if args, err := p.CmdlineSliceWithContext(ctx); err == nil && len(args) > 0 {
			argv0 = args[0]
		}
		table.Add(name, argv0)
	}

	return table, nil
}
