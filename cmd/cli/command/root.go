package command

// root.go defines the root command for the mangapress admin CLI.
// set up the global flags here.

import (
	"context"
	"fmt"
	"os"
	"time"

	"mangapress/cmd/cli/authentication"
	"mangapress/cmd/cli/command/client"

	"github.com/spf13/cobra"
)

var (
	apiURL  string        // Global flag for API server URL
	timeout time.Duration // per-command deadline
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mangapress",
	Short: "mangapress - admin command line for the mangapress API",
	Long: `mangapress talks to the mangapress API as the administrator. Use it to:
- Log in and keep the admin token in the OS keyring
- Manage manga and blog categories
- Upload media and sweep orphaned objects from the bucket
- Hash a password for ADMIN_PASSWORD_HASH

Use "mangapress command -h" to see all available commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	defaultAPI := os.Getenv("MANGAPRESS_API")
	if defaultAPI == "" {
		defaultAPI = "http://localhost:8080"
	}

	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API server URL (env MANGAPRESS_API)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")

	rootCmd.AddCommand(authCmd, mangaCmd, categoryCmd, uploadCmd, mediaCmd, hashPasswordCmd)
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

// authedClient returns a client carrying the stored admin token.
func authedClient() (*client.HTTPClient, error) {
	token, err := authentication.ValidToken(time.Now())
	if err != nil {
		return nil, err
	}
	httpClient := client.NewHTTPClient(apiURL)
	httpClient.SetToken(token)
	return httpClient, nil
}
