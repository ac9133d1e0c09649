// Package cli implements the sindri command line tool on top of the SDK.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	sindri "github.com/sindri-labs/sindri-go"
)

var (
	flagAPIKey  string
	flagBaseURL string
	flagVerbose int
)

// NewRootCommand builds the sindri command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "sindri",
		Short:         "Interact with the Sindri circuit-proving API",
		Long:          "Upload circuits, generate proofs and inspect jobs on the Sindri circuit-proving API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagAPIKey, "api-key", "",
		"API key (defaults to the SINDRI_API_KEY environment variable)")
	root.PersistentFlags().StringVar(&flagBaseURL, "base-url", "",
		"API host (defaults to the SINDRI_BASE_URL environment variable)")
	root.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v",
		"increase log verbosity (-v for summaries, -vv for full detail)")

	root.AddCommand(newCircuitCommand())
	root.AddCommand(newProofCommand())
	root.AddCommand(newTeamCommand())
	return root
}

// Execute runs the CLI. A .env file in the working directory is loaded
// first so local setups can keep their API key out of the shell history.
func Execute() {
	_ = godotenv.Load()
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newClient builds an SDK client from the environment plus any flag
// overrides.
func newClient() (*sindri.Client, error) {
	config := sindri.ConfigFromEnv()
	if flagAPIKey != "" {
		config.APIKey = flagAPIKey
	}
	if flagBaseURL != "" {
		config.BaseURL = flagBaseURL
	}
	if flagVerbose != 0 {
		config.VerboseLevel = min(flagVerbose, 2)
	}
	return sindri.NewClient(config)
}

// printJSON writes v to the command's stdout as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// parseMeta converts repeated key=value flags into a metadata mapping.
func parseMeta(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	meta := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --meta value %q, expected key=value", pair)
		}
		meta[key] = value
	}
	return meta, nil
}
