package command

import (
	"fmt"
	"time"

	"mangapress/cmd/cli/authentication"
	"mangapress/cmd/cli/command/client"
	"mangapress/cmd/cli/dto"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the mangapress API server. Supports login, logout and status.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login as the administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		var c dto.LoginRequest
		c.Email, _ = cmd.Flags().GetString("email")
		c.Password, _ = cmd.Flags().GetString("password")

		ctx, cancel := commandContext(cmd)
		defer cancel()

		response, err := client.NewHTTPClient(apiURL).Login(ctx, &c)
		if err != nil {
			return fmt.Errorf("login process failed: %w", err)
		}

		if err := authentication.StoreTokens(&authentication.StoredCredentials{
			Token:     response.Token,
			Email:     c.Email,
			APIURL:    apiURL,
			ExpiresAt: response.ExpiresAt,
		}); err != nil {
			return fmt.Errorf("store token: %w", err)
		}

		fmt.Printf("✓ Logged in as %s, token expires %s.\n", c.Email, humanize.Time(response.ExpiresAt))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteTokens(); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored login",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds, err := authentication.GetTokens()
		if err != nil {
			return err
		}
		if creds.Expired(time.Now()) {
			fmt.Printf("Token for %s expired %s.\n", creds.Email, humanize.Time(creds.ExpiresAt))
			return nil
		}
		fmt.Printf("Logged in as %s on %s, token expires %s.\n", creds.Email, creds.APIURL, humanize.Time(creds.ExpiresAt))
		return nil
	},
}

func init() {
	authCmd.AddCommand(loginCmd, logoutCmd, statusCmd)

	loginCmd.Flags().StringP("email", "e", "", "Administrator email")
	loginCmd.Flags().StringP("password", "p", "", "Administrator password")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")
}
