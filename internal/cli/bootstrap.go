package cli

import (
	"fmt"

	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

func newBootstrapCmd(cfg *config.Config, connect TableConnector) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create the users and notes tables and their indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := connect(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("connect dynamodb: %w", err)
			}
			if err := dynamo.Bootstrap(cmd.Context(), client, cfg.DynamoTables); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables ready: %s, %s\n", cfg.DynamoTables.Users, cfg.DynamoTables.Notes)
			return nil
		},
	}
}
