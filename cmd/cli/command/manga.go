package command

import (
	"fmt"
	"strings"

	"mangapress/cmd/cli/dto"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var mangaCmd = &cobra.Command{
	Use:   "manga",
	Short: "Manga management commands",
	Long:  `Manage manga: list, view, create and delete (deleting cascades to chapters and media).`,
}

var listMangaCmd = &cobra.Command{
	Use:   "list",
	Short: "List all manga",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		mangas, err := httpClient.ListManga(ctx)
		if err != nil {
			return fmt.Errorf("failed to get manga list: %w", err)
		}

		if len(mangas) == 0 {
			fmt.Println("No manga found.")
			return nil
		}

		fmt.Printf("Found %d manga:\n\n", len(mangas))
		for _, m := range mangas {
			fmt.Printf("ID: %s\n", m.ID)
			fmt.Printf("Title: %s\n", m.Title)
			fmt.Printf("Author: %s\n", m.Author)
			fmt.Printf("Chapters: %s\n", humanize.Comma(m.ChapterCount))
			fmt.Printf("Created: %s\n", humanize.Time(m.CreatedAt))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var getMangaCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get manga by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		m, err := httpClient.GetManga(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get manga: %w", err)
		}

		fmt.Printf("ID: %s\nTitle: %s\nAuthor: %s\nCover: %s\n", m.ID, m.Title, m.Author, m.CoverImage)
		fmt.Printf("Description: %s\n", m.Description)
		fmt.Printf("Chapters (%d): %s\n", len(m.Chapters), strings.Join(m.Chapters, ", "))
		return nil
	},
}

var createMangaCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manga",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.MangaRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Author, _ = cmd.Flags().GetString("author")
		req.Description, _ = cmd.Flags().GetString("description")
		req.CoverImage, _ = cmd.Flags().GetString("cover")

		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		m, err := httpClient.CreateManga(ctx, &req)
		if err != nil {
			return fmt.Errorf("failed to create manga: %w", err)
		}
		fmt.Printf("✓ Manga created: %s (%s)\n", m.Title, m.ID)
		return nil
	},
}

var deleteMangaCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a manga with its chapters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		msg, err := httpClient.DeleteManga(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to delete manga: %w", err)
		}
		fmt.Println("✓", msg)
		return nil
	},
}

func init() {
	mangaCmd.AddCommand(listMangaCmd, getMangaCmd, createMangaCmd, deleteMangaCmd)

	createMangaCmd.Flags().String("title", "", "Manga title")
	createMangaCmd.Flags().String("author", "", "Manga author")
	createMangaCmd.Flags().String("description", "", "Manga description")
	createMangaCmd.Flags().String("cover", "", "Cover image URL (see 'mangapress upload')")
	for _, f := range []string{"title", "author", "description", "cover"} {
		createMangaCmd.MarkFlagRequired(f)
	}
}
