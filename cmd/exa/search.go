package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	exa "github.com/erayack/exa-go"
)

var (
	rankStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true)
	urlStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func newSearchCmd() *cobra.Command {
	var (
		numResults int
		searchType string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web",
		Long: `Search the web and print the most relevant results.

The search type controls how results are found: "neural" uses embeddings,
"keyword" uses traditional term matching, and "auto" picks per query.

Example:
  exa search "best static site generators"
  exa search "transformer architecture" --type neural --num 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Search(cmd.Context(), args[0], &exa.SearchOptions{
				NumResults: numResults,
				Type:       exa.SearchType(searchType),
				Category:   category,
			})
			if err != nil {
				return err
			}

			printResults(cmd, resp.Results, outputWidth(cmd))
			return nil
		},
	}

	cmd.Flags().IntVar(&numResults, "num", 10, "Number of results to return")
	cmd.Flags().StringVar(&searchType, "type", "auto", "Search type: auto, neural, keyword")
	cmd.Flags().StringVar(&category, "category", "", "Restrict results to a category")

	return cmd
}

func printResults(cmd *cobra.Command, results []exa.SearchResult, width int) {
	out := cmd.OutOrStdout()
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		rank := fmt.Sprintf("%2d.", i+1)
		fmt.Fprintf(out, "%s %s\n", rankStyle.Render(rank),
			titleStyle.Render(runewidth.Truncate(title, width-4, "…")))
		fmt.Fprintf(out, "    %s\n", urlStyle.Render(runewidth.Truncate(r.URL, width-4, "…")))
		if r.PublishedDate != "" {
			fmt.Fprintf(out, "    %s\n", metaStyle.Render(r.PublishedDate))
		}
	}
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
	}
}
