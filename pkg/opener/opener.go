package opener

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// Executor runs an external command to completion.
type Executor interface {
	Run(ctx context.Context, cmd Command) error
}

// Spawner runs a task without the caller waiting for it.
type Spawner interface {
	Spawn(task func())
}

// ExecExecutor runs commands with os/exec, without a shell.
type ExecExecutor struct{}

func (ExecExecutor) Run(ctx context.Context, cmd Command) error {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	out, err := c.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Errorf("%s exited with code %d: %s", cmd.Name, exitErr.ExitCode(), out)
		}
		return errors.Wrapf(err, "failed to run %s", cmd.Name)
	}
	return nil
}

// GoSpawner runs each task in its own goroutine.
type GoSpawner struct{}

func (GoSpawner) Spawn(task func()) {
	go task()
}

// Opener reveals paths in the file manager and opens URLs in the browser.
// All work happens in spawned tasks; failures are logged and never returned.
type Opener struct {
	strategy Strategy
	executor Executor
	spawner  Spawner
	log      logger.Logger
}

func New(strategy Strategy, executor Executor, spawner Spawner) *Opener {
	return &Opener{
		strategy: strategy,
		executor: executor,
		spawner:  spawner,
		log:      logger.New(),
	}
}

// NewDefault returns an Opener that runs real commands in goroutines.
func NewDefault(strategy Strategy) *Opener {
	return New(strategy, ExecExecutor{}, GoSpawner{})
}

// Strategy returns the platform strategy chosen at construction.
func (o *Opener) Strategy() Strategy {
	return o.strategy
}

// Reveal schedules target, an absolute path the caller has already checked
// for containment, to be shown in the file manager, and returns immediately.
// The target is re-examined when the task runs.
func (o *Opener) Reveal(target string) {
	log := o.taskLogger(logger.Data{"action": "reveal", "target": target})

	o.spawner.Spawn(func() {
		info, err := os.Stat(target)
		if err != nil {
			log.Err(errors.WithStack(err)).Error("reveal target unavailable")
			return
		}
		cmd := o.strategy.Reveal(target, info.IsDir())
		o.run(context.Background(), log, cmd)
	})
}

// OpenURLAfter schedules url to be opened in the default browser once delay
// has passed. The task is dropped if ctx is done first.
func (o *Opener) OpenURLAfter(ctx context.Context, url string, delay time.Duration) {
	log := o.taskLogger(logger.Data{"action": "open_url", "url": url})

	o.spawner.Spawn(func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			log.Info("browser launch cancelled")
			return
		case <-timer.C:
		}
		o.run(ctx, log, o.strategy.OpenURL(url))
	})
}

func (o *Opener) run(ctx context.Context, log logger.Logger, cmd Command) {
	log.Info("running external command", logger.Data{"command": cmd.Name, "args": cmd.Args})
	if err := o.executor.Run(ctx, cmd); err != nil {
		log.Err(err).Error("external command failed", logger.Data{"command": cmd.Name})
		return
	}
	log.Info("external command finished", logger.Data{"command": cmd.Name})
}

func (o *Opener) taskLogger(data logger.Data) logger.Logger {
	data["strategy"] = o.strategy.Name()
	return o.log.ID(uuid.New().String()).Root(data)
}
