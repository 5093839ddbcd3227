package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"agrigpt/utils"
)

var (
	tokenSubject string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for POST /ask",
	Long:  `Signs an HS256 token with auth.jwtSecret. Only needed when the API runs with authentication enabled.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = time.Duration(cfg.Auth.TTLMinutes) * time.Minute
		}
		token, err := utils.GenerateJWT(cfg.Auth.JWTSecret, cfg.Auth.Issuer, tokenSubject, ttl)
		if err != nil {
			return err
		}
		cmd.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "agrigpt-client", "token subject")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default auth.ttlMinutes)")
	rootCmd.AddCommand(tokenCmd)
}
