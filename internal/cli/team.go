package cli

import "github.com/spf13/cobra"

func newTeamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "Show details for the team owning the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			team, err := client.Team(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, team)
		},
	}
}
