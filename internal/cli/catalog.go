package cli

import (
	"fmt"
	"io"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
)

// reportCreated prints the id of a created resource. The backend may answer
// without a body, leaving the id empty.
func reportCreated(w io.Writer, kind, id string) {
	_, _ = fmt.Fprintf(w, "Created %s %s\n", kind, dash(id))
}

func printAuthors(w io.Writer, authors []product.Author) error {
	t := newTable(w, "ID", "NAME", "NATIONALITY")
	for _, a := range authors {
		t.row(a.ID, a.Name, dash(a.Nationality))
	}
	return t.flush()
}

func printCategories(w io.Writer, categories []product.Category) error {
	t := newTable(w, "ID", "NAME", "DESCRIPTION")
	for _, c := range categories {
		t.row(c.ID, c.Name, dash(c.Description))
	}
	return t.flush()
}

func authorsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "authors",
		Aliases: []string{"author"},
		Short:   "Manage authors",
	}

	var in product.AuthorInput
	inputFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Name, "name", "", "author name")
		c.Flags().StringVar(&in.Nationality, "nationality", "", "nationality")
		c.Flags().StringVar(&in.Biography, "bio", "", "short biography")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			authors, err := rt.client.Authors.List(cmd.Context())
			if err != nil {
				return err
			}
			return printAuthors(cmd.OutOrStdout(), authors)
		},
	}
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rt.client.Authors.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a == nil {
				return errors.Errorf("author %s not found", args[0])
			}
			if err := printAuthors(cmd.OutOrStdout(), []product.Author{*a}); err != nil {
				return err
			}
			if a.Biography != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", a.Biography)
			}
			return nil
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Add an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := rt.admin().CreateAuthor(cmd.Context(), in)
			if err != nil {
				return err
			}
			var id string
			if a != nil {
				id = a.ID
			}
			reportCreated(cmd.OutOrStdout(), "author", id)
			return nil
		},
	}
	inputFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.admin().UpdateAuthor(cmd.Context(), args[0], in); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated author %s\n", args[0])
			return nil
		},
	}
	inputFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.admin().DeleteAuthor(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted author %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func categoriesCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}

	var in product.CategoryInput
	inputFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Name, "name", "", "category name")
		c.Flags().StringVar(&in.Description, "description", "", "description")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := rt.client.Categories.List(cmd.Context())
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), categories)
		},
	}
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.client.Categories.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if c == nil {
				return errors.Errorf("category %s not found", args[0])
			}
			return printCategories(cmd.OutOrStdout(), []product.Category{*c})
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := rt.admin().CreateCategory(cmd.Context(), in)
			if err != nil {
				return err
			}
			var id string
			if c != nil {
				id = c.ID
			}
			reportCreated(cmd.OutOrStdout(), "category", id)
			return nil
		},
	}
	inputFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.admin().UpdateCategory(cmd.Context(), args[0], in); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", args[0])
			return nil
		},
	}
	inputFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.admin().DeleteCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}
