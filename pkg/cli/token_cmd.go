package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	var (
		secret string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Mint a development HS256 JWT for a staff user",
		Long: `Mint an HS256-signed JWT with the given email as subject, for use
against a server running on a shared secret. Not usable against an
OIDC-configured server.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("AUTH_JWT_SECRET")
			}
			if secret == "" {
				return fmt.Errorf("no secret given: set --secret or AUTH_JWT_SECRET")
			}

			now := time.Now()
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": args[0],
				"iat": now.Unix(),
				"exp": now.Add(ttl).Unix(),
			})
			signed, err := token.SignedString([]byte(secret))
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			_, _ = fmt.Fprintln(os.Stdout, signed)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (defaults to AUTH_JWT_SECRET)")
	cmd.Flags().DurationVar(&ttl, "ttl", 8*time.Hour, "token lifetime")

	return cmd
}
