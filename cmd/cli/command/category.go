package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Blog category commands",
}

var listCategoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their article counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		categories, err := httpClient.ListCategories(ctx)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		for _, c := range categories {
			fmt.Printf("%-36s  %-30s  %d article(s)\n", c.ID, c.Name, c.ArticleCount)
		}
		return nil
	},
}

var createCategoryCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		c, err := httpClient.CreateCategory(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Printf("✓ Category created: %s (%s)\n", c.Name, c.ID)
		return nil
	},
}

var deleteCategoryCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete an unused category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		httpClient, err := authedClient()
		if err != nil {
			return err
		}
		ctx, cancel := commandContext(cmd)
		defer cancel()

		msg, err := httpClient.DeleteCategory(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		fmt.Println("✓", msg)
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(listCategoryCmd, createCategoryCmd, deleteCategoryCmd)
}
