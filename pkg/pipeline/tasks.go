package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
)

// Task is one named step of the build. Run returns the summed exit status
// of the commands the task launched; a non-nil error aborts the whole run.
type Task struct {
	Name   string
	Desc   string
	Deps   []string
	Hidden bool
	Run    func(ctx context.Context) (int, error)
}

// TaskList maps task names to their definitions. It is constructed
// explicitly by the caller and passed around, never stored globally.
type TaskList map[string]*Task

type (
	runtimeCtxKey struct{}
	runtimeCtx    struct {
		runTasks map[string]bool
	}
)

// RunTask executes the named task after its dependencies, each at most once
// per run. The returned status is the sum of the statuses reported by the
// executed tasks; errors abort immediately.
func RunTask(ctx context.Context, name string, tasks TaskList) (int, error) {
	rctx := runtimeCtx{
		runTasks: make(map[string]bool),
	}

	ctx = context.WithValue(ctx, runtimeCtxKey{}, &rctx)
	task, found := tasks[name]
	if !found {
		return 0, eris.Errorf("Task %s not found", name)
	}

	return runTaskInternal(ctx, task, tasks)
}

func runTaskInternal(ctx context.Context, task *Task, tasks TaskList) (int, error) {
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	rctx := ctx.Value(runtimeCtxKey{}).(*runtimeCtx)
	done, started := rctx.runTasks[task.Name]
	if started {
		if done {
			log(ctx).Debug().Msgf("Task %s already run", task.Name)
			return 0, nil
		}

		return 0, eris.Errorf("Task %s was called recursively", task.Name)
	}

	rctx.runTasks[task.Name] = false

	status := 0
	for _, dep := range task.Deps {
		depTask, ok := tasks[dep]
		if !ok {
			return status, eris.Errorf("Task %s not found", dep)
		}

		depStatus, err := runTaskInternal(ctx, depTask, tasks)
		status += depStatus
		if err != nil {
			return status, eris.Wrapf(err, "Task %s failed due to its dependency %s", task.Name, dep)
		}
	}

	taskStatus, err := task.Run(ctx)
	status += taskStatus
	if err != nil {
		return status, eris.Wrapf(err, "Task %s failed", task.Name)
	}

	rctx.runTasks[task.Name] = true
	return status, nil
}
