package events

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// HookSink runs a user command for every transition. The command receives
// GAMESCAN_NAME and GAMESCAN_RUNNING in its environment.
type HookSink struct {
	argv    []string
	timeout time.Duration
}

func NewHookSink(command string, timeout time.Duration) (*HookSink, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hook command %q", command)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("hook command is empty")
	}
	return &HookSink{argv: argv, timeout: timeout}, nil
}

func (s *HookSink) Name() string {
	return "hook"
}

func (s *HookSink) Emit(ctx context.Context, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Env = append(os.Environ(),
		"GAMESCAN_EVENT="+ActivityChanged,
		"GAMESCAN_NAME="+ev.Name,
		"GAMESCAN_RUNNING="+strconv.FormatBool(ev.IsRunning),
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(err, "hook %s failed: %s", s.argv[0], strings.TrimSpace(string(out)))
	}
	return nil
}
