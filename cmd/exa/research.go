package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/erayack/exa-go/ansi"
	"github.com/erayack/exa-go/research"
)

func newResearchCmd() *cobra.Command {
	var (
		model   string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "research <instructions>",
		Short: "Run an asynchronous research task and wait for the report",
		Long: `Create a research task from natural-language instructions, poll until it
reaches a terminal state, and print the report.

Research tasks run server-side and can take minutes. Status is reported as
the task progresses. A task that fails is reported with its status rather
than treated as a transport error.

Example:
  exa research "summarize recent progress on solid-state batteries"
  exa research "compare rust and go for network services" --timeout 20m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}
			rc := research.New(client)

			task, err := rc.Create(cmd.Context(), research.CreateOptions{
				Instructions: args[0],
				Model:        model,
			})
			if err != nil {
				return err
			}

			logger := log.New(os.Stderr)
			logger.Info("task created", "id", task.ID)

			lastStatus := task.Status
			task, err = rc.PollUntilFinished(cmd.Context(), task.ID, &research.PollOptions{
				Timeout: timeout,
				OnPoll: func(t *research.Task) {
					if t.Status != lastStatus {
						logger.Info("status changed", "id", t.ID, "status", t.Status)
						lastStatus = t.Status
					}
				},
			})
			if err != nil {
				return err
			}

			if task.Status != research.StatusCompleted {
				return fmt.Errorf("task %s ended with status %s", task.ID, task.Status)
			}
			if task.Output == nil || task.Output.Content == "" {
				return fmt.Errorf("task %s completed without output", task.ID)
			}

			theme := ansi.DefaultTheme()
			fmt.Fprintln(cmd.OutOrStdout(),
				ansi.RenderAnswer(task.Output.Content, task.Output.Citations, outputWidth(cmd), theme))
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Research model to use")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Give up after this long")

	return cmd
}
