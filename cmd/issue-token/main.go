package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	"github.com/noah-isme/issue-insights-api/internal/service"
	"github.com/noah-isme/issue-insights-api/pkg/config"
)

var (
	tokenUserID string
	tokenEmail  string
	tokenName   string
	tokenRole   string
	tokenTTL    time.Duration
	tokenJSON   bool
)

func init() {
	rootCmd.Flags().StringVar(&tokenUserID, "user", "", "User ID the token is issued for")
	rootCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim")
	rootCmd.Flags().StringVar(&tokenName, "name", "", "Display name claim")
	rootCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleMember), "Role claim (admin, core, member)")
	rootCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime, defaults to JWT_EXPIRATION")
	rootCmd.Flags().BoolVar(&tokenJSON, "json", false, "Output as JSON")
	_ = rootCmd.MarkFlagRequired("user")
}

var rootCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Mint a bearer token for the insights API",
	Long: `Mint an HS256 access token signed with JWT_SECRET so the /api/ai and
/api/analytics endpoints can be called without the tracker's login flow.

Examples:
  issue-token --user u-1 --role admin
  issue-token --user u-2 --ttl 1h --json`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runIssueToken(cmd.OutOrStdout(), cfg)
	},
}

type issuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func runIssueToken(out io.Writer, cfg *config.Config) error {
	expiry := cfg.JWT.Expiration
	if tokenTTL > 0 {
		expiry = tokenTTL
	}
	auth := service.NewAuthService(nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: expiry,
		Issuer:            cfg.JWT.Issuer,
	})

	token, expiresAt, err := auth.IssueToken(service.TokenSubject{
		UserID: tokenUserID,
		Email:  tokenEmail,
		Name:   tokenName,
		Role:   models.UserRole(tokenRole),
	})
	if err != nil {
		return err
	}

	if tokenJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(issuedToken{Token: token, ExpiresAt: expiresAt})
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
