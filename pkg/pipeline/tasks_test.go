package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
)

func TestRunTaskRunsDepsFirst(t *testing.T) {
	order := []string{}
	tasks := TaskList{}
	record := func(name string, deps ...string) {
		tasks[name] = &Task{
			Name: name,
			Deps: deps,
			Run: func(ctx context.Context) (int, error) {
				order = append(order, name)
				return 0, nil
			},
		}
	}

	record("assets")
	record("serve", "assets")

	status, err := RunTask(testCtx(), "serve", tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != 0 {
		t.Errorf("expected status 0, got %d", status)
	}
	if len(order) != 2 || order[0] != "assets" || order[1] != "serve" {
		t.Errorf("unexpected execution order %v", order)
	}
}

func TestRunTaskRunsSharedDepOnce(t *testing.T) {
	runs := 0
	tasks := TaskList{
		"base": {
			Name: "base",
			Run: func(ctx context.Context) (int, error) {
				runs++
				return 0, nil
			},
		},
		"a": {
			Name: "a",
			Deps: []string{"base"},
			Run:  func(ctx context.Context) (int, error) { return 0, nil },
		},
		"b": {
			Name: "b",
			Deps: []string{"base"},
			Run:  func(ctx context.Context) (int, error) { return 0, nil },
		},
		"all": {
			Name: "all",
			Deps: []string{"a", "b"},
			Run:  func(ctx context.Context) (int, error) { return 0, nil },
		},
	}

	_, err := RunTask(testCtx(), "all", tasks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runs != 1 {
		t.Errorf("expected the shared dependency to run once, ran %d times", runs)
	}
}

func TestRunTaskSumsStatuses(t *testing.T) {
	tasks := TaskList{
		"flaky": {
			Name: "flaky",
			Run:  func(ctx context.Context) (int, error) { return 1, nil },
		},
		"shaky": {
			Name: "shaky",
			Run:  func(ctx context.Context) (int, error) { return 2, nil },
		},
		"all": {
			Name: "all",
			Deps: []string{"flaky", "shaky"},
			Run:  func(ctx context.Context) (int, error) { return 0, nil },
		},
	}

	status, err := RunTask(testCtx(), "all", tasks)
	if err != nil {
		t.Fatalf("a nonzero status must not be an error: %v", err)
	}
	if status != 3 {
		t.Errorf("expected the statuses to sum to 3, got %d", status)
	}
}

func TestRunTaskFailsFast(t *testing.T) {
	boom := eris.New("boom")
	ran := false
	tasks := TaskList{
		"broken": {
			Name: "broken",
			Run:  func(ctx context.Context) (int, error) { return 0, boom },
		},
		"later": {
			Name: "later",
			Deps: []string{"broken"},
			Run: func(ctx context.Context) (int, error) {
				ran = true
				return 0, nil
			},
		},
	}

	_, err := RunTask(testCtx(), "later", tasks)
	if !eris.Is(err, boom) {
		t.Fatalf("expected the dependency failure to propagate, got %v", err)
	}
	if ran {
		t.Error("the dependent task must not run after its dependency failed")
	}
}

func TestRunTaskDetectsRecursion(t *testing.T) {
	tasks := TaskList{}
	tasks["a"] = &Task{
		Name: "a",
		Deps: []string{"b"},
		Run:  func(ctx context.Context) (int, error) { return 0, nil },
	}
	tasks["b"] = &Task{
		Name: "b",
		Deps: []string{"a"},
		Run:  func(ctx context.Context) (int, error) { return 0, nil },
	}

	_, err := RunTask(testCtx(), "a", tasks)
	if err == nil {
		t.Fatal("expected an error for recursive tasks")
	}
}

func TestRunTaskUnknownTask(t *testing.T) {
	_, err := RunTask(testCtx(), "nope", TaskList{})
	if err == nil {
		t.Fatal("expected an error for an unknown task")
	}
}
