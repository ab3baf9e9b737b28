// Command exa is a terminal client for the Exa search API.
//
// Usage:
//
//	EXA_API_KEY=... exa search "latest go releases"
//	EXA_API_KEY=... exa answer "what is the capital of france?"
//	EXA_API_KEY=... exa research "compare the top three go web frameworks"
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	exa "github.com/erayack/exa-go"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "exa: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "exa",
		Short:         "Search the web, get cited answers, and run research tasks",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("api-key", "", "API key (defaults to EXA_API_KEY)")
	root.PersistentFlags().String("base-url", "", "Override the API base URL")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	root.PersistentFlags().Int("width", 80, "Output width for rendered text")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newAnswerCmd())
	root.AddCommand(newResearchCmd())

	return root
}

// newClient builds an API client from the command's persistent flags. The
// api-key flag wins over the EXA_API_KEY environment variable.
func newClient(cmd *cobra.Command) (*exa.Client, error) {
	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("EXA_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set EXA_API_KEY or pass --api-key")
	}

	opts := []exa.Option{
		exa.WithUserAgent("exa-cli/" + version),
	}
	if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
		opts = append(opts, exa.WithBaseURL(baseURL))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			Level:        log.DebugLevel,
			ReportCaller: false,
		})
		opts = append(opts, exa.WithLogger(logger))
	}

	return exa.New(apiKey, opts...), nil
}

func outputWidth(cmd *cobra.Command) int {
	width, _ := cmd.Flags().GetInt("width")
	if width <= 0 {
		width = 80
	}
	return width
}
