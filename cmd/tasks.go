package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/aidarkhanov/nanoid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sitebuild/pkg"
	"sitebuild/pkg/pipeline"
)

type taskOptions struct {
	projectRoot string
	compress    bool
}

// taskList builds the registry for this run. The registry is passed through
// explicitly; nothing here touches global state.
func taskList(opts taskOptions) pipeline.TaskList {
	tasks := pipeline.TaskList{}
	add := func(task *pipeline.Task) {
		tasks[task.Name] = task
	}

	add(&pipeline.Task{
		Name: "clean",
		Desc: "removes all generated artifacts",
		Run: func(ctx context.Context) (int, error) {
			err := pkg.Purge(
				filepath.Join(opts.projectRoot, "dist"),
				filepath.Join(opts.projectRoot, "build"),
			)
			return 0, err
		},
	})

	add(&pipeline.Task{
		Name: "assets",
		Desc: "bundles and minifies the static assets listed in assets.yml",
		Run: func(ctx context.Context) (int, error) {
			spec, err := pipeline.LoadBundleSpec(filepath.Join(opts.projectRoot, "assets.yml"))
			if err != nil {
				return 0, err
			}

			err = pipeline.Build(ctx, pipeline.DefaultRegistry(), spec, opts.projectRoot)
			if err != nil {
				return 0, err
			}

			if opts.compress {
				err = pipeline.CompressTargets(ctx, spec, opts.projectRoot)
			}
			return 0, err
		},
	})

	add(&pipeline.Task{
		Name: "serve",
		Desc: "starts the dev server (rebuilds assets first)",
		Deps: []string{"assets"},
		Run: func(ctx context.Context) (int, error) {
			modd := filepath.Join(opts.projectRoot, ".tools", "modd")
			if _, err := os.Stat(modd); err != nil {
				// fall back to a modd from PATH
				modd = "modd"
			}

			return pipeline.Execute(ctx, modd, nil, nil)
		},
	})

	add(&pipeline.Task{
		Name: "test",
		Desc: "runs the frontend test suite",
		Run: func(ctx context.Context) (int, error) {
			return pipeline.Execute(ctx, "npm", []string{"test"}, []string{"NODE_ENV=test"})
		},
	})

	add(&pipeline.Task{
		Name: "docs",
		Desc: "generates the API documentation",
		Run: func(ctx context.Context) (int, error) {
			return pipeline.Execute(ctx, "npx",
				[]string{"jsdoc", "-c", "jsdoc.json", "-d", "build/docs"}, nil)
		},
	})

	add(&pipeline.Task{
		Name: "ci",
		Desc: "runs the full build, test and docs sequence",
		Deps: []string{"clean", "assets", "test", "docs"},
		Run: func(ctx context.Context) (int, error) {
			return 0, nil
		},
	})

	return tasks
}

var runCmd = &cobra.Command{
	Use:   "run [tasks...]",
	Short: "Runs the given build tasks",
	Long:  `Runs the given tasks in order. Without arguments, the available tasks are listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		compress, err := cmd.Flags().GetBool("compress")
		if err != nil {
			return err
		}

		logger := zerolog.New(NewConsoleWriter()).
			With().
			Str("run", nanoid.New()).
			Logger()
		ctx := pipeline.WithLogger(context.Background(), &logger)

		root, err := pkg.GetProjectRoot()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to find the project root")
		}

		tasks := taskList(taskOptions{
			projectRoot: root,
			compress:    compress,
		})

		status := 0
		for _, name := range args {
			taskStatus, err := pipeline.RunTask(ctx, name, tasks)
			status += taskStatus
			if err != nil {
				logger.Fatal().Err(err).Msgf("Failed task %s:", name)
			}
		}

		if len(args) == 0 {
			fmt.Println("Available tasks:")
			maxNameLen := 0
			sortedNames := make([]string, 0)
			for _, task := range tasks {
				if task.Hidden {
					continue
				}

				nameLen := len(task.Name)
				if nameLen > maxNameLen {
					maxNameLen = nameLen
				}

				sortedNames = append(sortedNames, task.Name)
			}

			sort.Strings(sortedNames)

			lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
			for _, name := range sortedNames {
				fmt.Printf(lineFmt, name+":", tasks[name].Desc)
			}
		}

		if status != 0 {
			os.Exit(1)
		}

		return nil
	},
}

func init() {
	runCmd.Flags().BoolP("compress", "c", false, "also write .br/.gz siblings next to each bundle")
	rootCmd.AddCommand(runCmd)
}
