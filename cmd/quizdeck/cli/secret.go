package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quizdeck/quizdeck/internal/config"
)

func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a token signing secret",
		Long: `Generate a random secret suitable for signing admin tokens.

Set it as QUIZDECK_AUTH_JWT_SECRET or as auth.jwt_secret in quizdeck.yaml.
Rotating the secret invalidates every outstanding token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			buf := make([]byte, config.MinSecretLen)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("generate secret: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
			return nil
		},
	}

	return cmd
}
