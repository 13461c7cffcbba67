package command

import (
	"context"
	"sync"
)

// Recorder is a Runner that records commands instead of running them.
// Mutable
type Recorder struct {
	mu   sync.Mutex
	Cmds []Cmd
	// Fail makes every command whose Name matches return an ExitError with code 1.
	Fail map[string]bool
	// Stdout is returned by Output for commands named by the key.
	Stdout map[string]string
}

var _ Runner = (*Recorder)(nil)

func (r *Recorder) Run(_ context.Context, c Cmd) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Cmds = append(r.Cmds, c)
	if r.Fail[c.Name] {
		return &ExitError{Cmd: c, Code: 1}
	}
	return nil
}

func (r *Recorder) Output(ctx context.Context, c Cmd) (string, error) {
	if err := r.Run(ctx, c); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Stdout[c.Name], nil
}
