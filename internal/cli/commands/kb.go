package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskd-dev/deskd/internal/api"
)

// NewKBCmd creates the knowledge-base command group
func NewKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Manage the knowledge base (agents and admins)",
	}

	cmd.AddCommand(newKBListCmd())
	cmd.AddCommand(newKBAddCmd())
	cmd.AddCommand(newKBUpdateCmd())
	cmd.AddCommand(newKBRemoveCmd())

	return cmd
}

func newKBListCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge-base articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/kb"); err != nil {
				return err
			}

			articles, err := app.client.ListArticles(context.Background(), query)
			if err != nil {
				return err
			}

			if len(articles) == 0 {
				fmt.Println("No articles found")
				return nil
			}

			for _, a := range articles {
				tags := ""
				if len(a.Tags) > 0 {
					tags = "  [" + strings.Join(a.Tags, ", ") + "]"
				}
				fmt.Printf("%-26s  %s%s\n", a.ID, a.Title, tags)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Search query")

	return cmd
}

func newKBAddCmd() *cobra.Command {
	var title, body string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an article",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateForm(articleForm{Title: title, Body: body}); err != nil {
				return err
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/kb"); err != nil {
				return err
			}

			err = app.client.CreateArticle(context.Background(), api.ArticleRequest{
				Title: title,
				Body:  body,
				Tags:  tags,
			})
			if err != nil {
				return err
			}

			fmt.Println("✓ Article added")
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&body, "body", "", "Article body")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")

	return cmd
}

func newKBUpdateCmd() *cobra.Command {
	var title, body string
	var tags []string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateForm(articleForm{Title: title, Body: body}); err != nil {
				return err
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/kb"); err != nil {
				return err
			}

			err = app.client.UpdateArticle(context.Background(), args[0], api.ArticleRequest{
				Title: title,
				Body:  body,
				Tags:  tags,
			})
			if err != nil {
				return err
			}

			fmt.Println("✓ Article updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&body, "body", "", "Article body")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")

	return cmd
}

func newKBRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireView("/kb"); err != nil {
				return err
			}

			if err := app.client.DeleteArticle(context.Background(), args[0]); err != nil {
				return err
			}

			fmt.Println("✓ Article deleted")
			return nil
		},
	}
}
