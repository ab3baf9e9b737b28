package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	exa "github.com/erayack/exa-go"
	"github.com/erayack/exa-go/ansi"
)

func newAnswerCmd() *cobra.Command {
	var (
		plain bool
		model string
		text  bool
	)

	cmd := &cobra.Command{
		Use:   "answer <query>",
		Short: "Get a cited answer to a question",
		Long: `Ask a question and get an answer grounded in web sources.

By default the answer streams into an interactive view with a spinner, then
renders as markdown with numbered citation footnotes. Use --plain to wait
for the complete answer and print it without the interactive view, which is
suitable for piping.

Example:
  exa answer "who maintains the go standard library?"
  exa answer "how does raft leader election work?" --plain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			opts := &exa.AnswerOptions{Model: model, IncludeText: text}
			if plain {
				return runAnswerPlain(cmd, client, args[0], opts)
			}
			return runAnswerTUI(cmd, client, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the complete answer without the interactive view")
	cmd.Flags().StringVar(&model, "model", "", "Answer model to use")
	cmd.Flags().BoolVar(&text, "text", false, "Include full source text in citations")

	return cmd
}

func runAnswerPlain(cmd *cobra.Command, client *exa.Client, query string, opts *exa.AnswerOptions) error {
	resp, err := client.Answer(cmd.Context(), query, opts)
	if err != nil {
		return err
	}
	rendered := ansi.RenderAnswer(resp.Answer, resp.Citations, outputWidth(cmd), ansi.DefaultTheme())
	fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return nil
}

func runAnswerTUI(cmd *cobra.Command, client *exa.Client, query string, opts *exa.AnswerOptions) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	stream, err := client.StreamAnswer(ctx, query, opts)
	if err != nil {
		return err
	}

	chunks := make(chan exa.AnswerChunk)
	done := make(chan error, 1)
	go func() {
		defer close(chunks)
		for chunk, err := range exa.All[exa.AnswerChunk](stream) {
			if err != nil {
				done <- err
				return
			}
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				done <- ctx.Err()
				return
			}
		}
		done <- nil
	}()

	m := newAnswerModel(query, outputWidth(cmd), ansi.DefaultTheme(), chunks, done)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(cmd.OutOrStdout()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("answer view: %w", err)
	}
	if fm, ok := final.(answerModel); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
