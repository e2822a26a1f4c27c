package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-notes-nosql/internal/config"
	jwtinfra "github.com/go-notes-nosql/internal/infrastructure/jwt"
	"github.com/spf13/cobra"
)

func newTokenCmd(cfg *config.Config, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Access token utilities",
	}
	cmd.AddCommand(newTokenIssueCmd(cfg, now))
	return cmd
}

func newTokenIssueCmd(cfg *config.Config, now func() time.Time) *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint an access token for a user id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user is required")
			}
			expiry := cfg.AccessTokenExpiry
			if ttl > 0 {
				expiry = ttl
			}
			codec, err := jwtinfra.NewCodec(cfg.JWTSecret, expiry)
			if err != nil {
				return err
			}
			tok, err := codec.Sign(userID, now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to embed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to ACCESS_TOKEN_EXPIRY)")
	return cmd
}
