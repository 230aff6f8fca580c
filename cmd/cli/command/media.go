package command

import (
	"fmt"
	"os"

	"mangapress/cmd/cli/dto"
	"mangapress/internal/middleware/auth"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload an image or PDF and print its URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logicalType, _ := cmd.Flags().GetString("type")
		staged, _ := cmd.Flags().GetBool("temp")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := httpClient.Upload(ctx, args[0], data, logicalType, staged)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		fmt.Printf("✓ Uploaded %s (%s)\n%s\n", args[0], humanize.Bytes(uint64(len(data))), res.URL)
		return nil
	},
}

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Media maintenance commands",
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored objects no document references",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SweepRequest
		req.Prefix, _ = cmd.Flags().GetString("prefix")
		req.OlderThan, _ = cmd.Flags().GetString("older-than")
		req.DryRun, _ = cmd.Flags().GetBool("dry-run")

		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := httpClient.Sweep(ctx, &req)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		verb := "Removed"
		if res.DryRun {
			verb = "Would remove"
		}
		fmt.Printf("%s %s object(s)\n", verb, humanize.Comma(int64(len(res.Removed))))
		for _, u := range res.Removed {
			fmt.Println("  ", u)
		}
		return nil
	},
}

// hashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH.
var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	mediaCmd.AddCommand(sweepCmd)

	uploadCmd.Flags().String("type", "blog", "Logical type: blog, manga-cover, chapter-manga")
	uploadCmd.Flags().Bool("temp", false, "Stage under temp/ until a document claims it")

	sweepCmd.Flags().String("prefix", "", "Only consider keys under this prefix, e.g. temp/")
	sweepCmd.Flags().String("older-than", "24h", "Grace period before an object is eligible")
	sweepCmd.Flags().Bool("dry-run", true, "List candidates without deleting")
}
