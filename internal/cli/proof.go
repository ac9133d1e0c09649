package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	sindri "github.com/sindri-labs/sindri-go"
)

func newProofCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Create, inspect and delete proofs",
	}
	cmd.AddCommand(newProofCreateCommand())
	cmd.AddCommand(newProofListCommand())
	cmd.AddCommand(newProofDetailCommand())
	cmd.AddCommand(newProofDeleteCommand())
	return cmd
}

func newProofCreateCommand() *cobra.Command {
	var (
		verify      bool
		prover      string
		metaPairs   []string
		noWait      bool
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "create <circuit-id> <input-file>...",
		Short: "Generate one proof per input file",
		Long: "Generate one proof per input file. Multiple input files are " +
			"submitted concurrently, each with its own independent poll loop.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			meta, err := parseMeta(metaPairs)
			if err != nil {
				return err
			}
			circuitID, inputPaths := args[0], args[1:]

			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(concurrency)
			for _, inputPath := range inputPaths {
				group.Go(func() error {
					input, err := os.ReadFile(inputPath)
					if err != nil {
						return fmt.Errorf("read proof input %s: %w", inputPath, err)
					}

					opts := sindri.NewProveCircuitOptions()
					opts.PerformVerify = verify
					opts.ProverImplementation = prover
					opts.Meta = meta
					opts.Wait = !noWait

					proofID, err := client.ProveCircuit(ctx, circuitID, string(input), opts)
					if err != nil {
						return fmt.Errorf("prove with input %s: %w", inputPath, err)
					}
					_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", inputPath, proofID)
					return err
				})
			}
			return group.Wait()
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "run a server-side verification check during proving")
	cmd.Flags().StringVar(&prover, "prover", "", "server-side prover implementation to use")
	cmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "metadata entry as key=value (repeatable)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "return immediately after submission without polling")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum number of proofs generated in parallel")
	return cmd
}

func newProofListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all proofs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			proofs, err := client.ListProofs(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, proofs)
		},
	}
}

func newProofDetailCommand() *cobra.Command {
	opts := sindri.NewProofDetailOptions()
	cmd := &cobra.Command{
		Use:   "detail <proof-id>",
		Short: "Fetch the detail object for a proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			proof, err := client.GetProof(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, proof)
		},
	}
	cmd.Flags().BoolVar(&opts.IncludeProof, "include-proof", true, "include the proof bytes")
	cmd.Flags().BoolVar(&opts.IncludePublic, "include-public", true, "include the public inputs")
	cmd.Flags().BoolVar(&opts.IncludeSmartContractCalldata, "include-calldata", true,
		"include the proof formatted as smart contract calldata")
	cmd.Flags().BoolVar(&opts.IncludeVerificationKey, "include-verification-key", true,
		"include the verification key")
	return cmd
}

func newProofDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <proof-id>",
		Short: "Mark a proof as deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.DeleteProof(cmd.Context(), args[0])
		},
	}
}
