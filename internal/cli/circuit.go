package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sindri "github.com/sindri-labs/sindri-go"
)

func newCircuitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "circuit",
		Short: "Create, inspect and delete circuits",
	}
	cmd.AddCommand(newCircuitCreateCommand())
	cmd.AddCommand(newCircuitListCommand())
	cmd.AddCommand(newCircuitDetailCommand())
	cmd.AddCommand(newCircuitProofsCommand())
	cmd.AddCommand(newCircuitDeleteCommand())
	cmd.AddCommand(newCircuitContractCommand())
	return cmd
}

func newCircuitCreateCommand() *cobra.Command {
	var (
		tags      []string
		metaPairs []string
		noWait    bool
	)
	cmd := &cobra.Command{
		Use:   "create <upload-path>",
		Short: "Upload a circuit directory or archive and compile it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			meta, err := parseMeta(metaPairs)
			if err != nil {
				return err
			}

			opts := sindri.NewCreateCircuitOptions()
			opts.Tags = tags
			opts.Meta = meta
			opts.Wait = !noWait

			circuitID, err := client.CreateCircuit(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), circuitID)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag to assign to the circuit (repeatable)")
	cmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "metadata entry as key=value (repeatable)")
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "return immediately after submission without polling")
	return cmd
}

func newCircuitListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all circuits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			circuits, err := client.ListCircuits(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, circuits)
		},
	}
}

func newCircuitDetailCommand() *cobra.Command {
	var noVerificationKey bool
	cmd := &cobra.Command{
		Use:   "detail <circuit-id>",
		Short: "Fetch the detail object for a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			opts := sindri.NewCircuitDetailOptions()
			opts.IncludeVerificationKey = !noVerificationKey
			circuit, err := client.GetCircuit(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, circuit)
		},
	}
	cmd.Flags().BoolVar(&noVerificationKey, "no-verification-key", false,
		"omit the verification key from the response")
	return cmd
}

func newCircuitProofsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proofs <circuit-id>",
		Short: "List all proofs generated from a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			proofs, err := client.ListCircuitProofs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, proofs)
		},
	}
}

func newCircuitDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <circuit-id>",
		Short: "Mark a circuit and its proofs as deleted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return client.DeleteCircuit(cmd.Context(), args[0])
		},
	}
}

func newCircuitContractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "contract <circuit-id>",
		Short: "Fetch the smart contract verifier source for a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			code, err := client.SmartContractVerifier(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), code)
			return err
		},
	}
}
