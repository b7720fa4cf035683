package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/spf13/cobra"

	"github.com/xenking/otamanga-storefront/internal/domain/product"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

func mangasCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mangas",
		Aliases: []string{"manga"},
		Short:   "Manage the manga catalog",
	}
	cmd.AddCommand(
		mangasListCommand(rt),
		mangasGetCommand(rt),
		mangasCreateCommand(rt),
		mangasUpdateCommand(rt),
		mangasExportCommand(rt),
	)
	return cmd
}

func printProducts(w io.Writer, products []product.Product) error {
	t := newTable(w, "ID", "TITLE", "PRICE", "STOCK", "CATEGORY", "AUTHOR")
	for _, p := range products {
		category := p.CategoryName
		if category == "" {
			category = p.CategoryID
		}
		author := p.AuthorName
		if author == "" {
			author = p.AuthorID
		}
		t.row(p.ID, p.Title, storefront.FormatPrice(p.Price), p.Stock, dash(category), dash(author))
	}
	return t.flush()
}

func mangasListCommand(rt *runtime) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mangas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				products []product.Product
				err      error
			)
			if category != "" {
				products, err = rt.client.Mangas.ListByCategory(cmd.Context(), category)
			} else {
				products, err = rt.client.Mangas.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only mangas of this category id")
	return cmd
}

func mangasGetCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.client.Mangas.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), []product.Product{*p})
		},
	}
}

func productFormFlags(cmd *cobra.Command, f *storefront.ProductForm) {
	cmd.Flags().StringVar(&f.Title, "title", "", "title")
	cmd.Flags().StringVar(&f.Price, "price", "", "unit price")
	cmd.Flags().StringVar(&f.Stock, "stock", "0", "units in stock")
	cmd.Flags().StringVar(&f.AuthorID, "author", "", "author id")
	cmd.Flags().StringVar(&f.CategoryID, "category", "", "category id")
	cmd.Flags().StringVar(&f.ImageURL, "image", "", "cover image URL")
}

func mangasCreateCommand(rt *runtime) *cobra.Command {
	var f storefront.ProductForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a manga",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := rt.admin().AddProduct(cmd.Context(), f)
			if err != nil {
				return err
			}
			var id string
			if p != nil {
				id = p.ID
			}
			reportCreated(cmd.OutOrStdout(), "manga", id)
			return nil
		},
	}
	productFormFlags(cmd, &f)
	return cmd
}

func mangasUpdateCommand(rt *runtime) *cobra.Command {
	var f storefront.ProductForm
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a manga",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rt.admin().UpdateProduct(cmd.Context(), args[0], f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated manga %s\n", args[0])
			return nil
		},
	}
	productFormFlags(cmd, &f)
	return cmd
}

func mangasExportCommand(rt *runtime) *cobra.Command {
	var (
		out      string
		compress bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the catalog Excel export",
		Long: `Download the catalog as an Excel workbook.

Without --out only the export URL is printed. With --gzip the file is
compressed while it is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), rt.client.Mangas.ExportURL())
				return nil
			}
			n, err := exportTo(cmd, rt, out, compress)
			if err != nil {
				// Do not leave a truncated file behind.
				_ = os.Remove(out)
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the export to this file")
	cmd.Flags().BoolVar(&compress, "gzip", false, "gzip the written file")
	return cmd
}

func exportTo(cmd *cobra.Command, rt *runtime, path string, compress bool) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create output")
	}
	defer func() { _ = f.Close() }()

	var w io.Writer = f
	var zw *pgzip.Writer
	if compress {
		zw = pgzip.NewWriter(f)
		w = zw
	}

	n, err := rt.client.Mangas.Export(cmd.Context(), w)
	if err != nil {
		return n, err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return n, errors.Wrap(err, "close gzip")
		}
	}
	if err := f.Close(); err != nil {
		return n, errors.Wrap(err, "close output")
	}
	return n, nil
}
