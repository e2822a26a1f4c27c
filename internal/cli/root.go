// Package cli holds the notesctl command tree.
package cli

import (
	"context"
	"time"

	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/infrastructure/dynamo"
	"github.com/spf13/cobra"
)

// TableConnector opens the DynamoDB client used by bootstrap.
type TableConnector func(ctx context.Context, cfg *config.Config) (dynamo.TableCreator, error)

func connectDynamo(ctx context.Context, cfg *config.Config) (dynamo.TableCreator, error) {
	return dynamo.NewClient(ctx, cfg)
}

// NewRootCmd builds notesctl. cfg supplies table names, the JWT secret and
// token lifetimes.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	return newRootCmd(cfg, connectDynamo, time.Now)
}

func newRootCmd(cfg *config.Config, connect TableConnector, now func() time.Time) *cobra.Command {
	root := &cobra.Command{
		Use:           "notesctl",
		Short:         "Operator tooling for the notes backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBootstrapCmd(cfg, connect))
	root.AddCommand(newTokenCmd(cfg, now))
	root.AddCommand(newBucketCmd(now))
	return root
}
