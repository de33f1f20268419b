// Package lifecycle runs the long-lived tasks of the process and tracks
// their liveness.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Task names
const (
	TaskBot  = "bot"
	TaskHTTP = "http"
)

// Task is a named unit of work that runs until its context is cancelled.
type Task struct {
	Name string
	Run  func(ctx context.Context) error

	// Critical tasks stop the whole runner when they fail.
	Critical bool
}

type taskState struct {
	started bool
	running bool
	err     error
}

// Runner starts tasks explicitly and records their liveness.
type Runner struct {
	logger *slog.Logger
	tasks  []Task

	mu    sync.RWMutex
	state map[string]*taskState
}

// New creates a Runner for tasks. Tasks are not started until Run.
func New(logger *slog.Logger, tasks ...Task) *Runner {
	state := make(map[string]*taskState, len(tasks))
	for _, t := range tasks {
		state[t.Name] = &taskState{}
	}
	return &Runner{
		logger: logger.With(slog.String("component", "lifecycle")),
		tasks:  tasks,
		state:  state,
	}
}

// Run starts every task and blocks until ctx is cancelled or a critical task
// fails, then waits for all tasks to return. A non-critical task failing is
// logged and leaves the others running.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	criticalErr := make(chan error, len(r.tasks))

	for _, t := range r.tasks {
		r.setState(t.Name, func(s *taskState) { s.started, s.running = true, true })
		r.logger.Info("task started", slog.String("task", t.Name))

		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			err := r.runTask(ctx, t)
			r.setState(t.Name, func(s *taskState) { s.running, s.err = false, err })

			switch {
			case err == nil:
				r.logger.Info("task stopped", slog.String("task", t.Name))
			case t.Critical:
				r.logger.Error("critical task failed", slog.String("task", t.Name), slog.Any("error", err))
				criticalErr <- fmt.Errorf("%s: %w", t.Name, err)
			default:
				r.logger.Error("task failed", slog.String("task", t.Name), slog.Any("error", err))
			}
		}(t)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-criticalErr:
		cancel()
	}

	wg.Wait()
	return err
}

func (r *Runner) runTask(ctx context.Context, t Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return t.Run(ctx)
}

func (r *Runner) setState(name string, fn func(*taskState)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.state[name]; ok {
		fn(s)
	}
}

// Started reports whether the named task was ever started.
func (r *Runner) Started(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.state[name]
	return ok && s.started
}

// Running reports whether the named task is currently running.
func (r *Runner) Running(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.state[name]
	return ok && s.running
}

// Err returns the error the named task ended with, if any.
func (r *Runner) Err(name string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.state[name]; ok {
		return s.err
	}
	return nil
}
