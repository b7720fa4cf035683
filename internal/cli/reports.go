package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xenking/otamanga-storefront/internal/domain/order"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

func ordersCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Inspect orders",
	}
	run := func(list func(cmd *cobra.Command) ([]order.Order, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			orders, err := list(cmd)
			if err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout(), "ID", "USER", "STATUS", "ITEMS", "TOTAL", "CREATED")
			for _, o := range orders {
				units := 0
				for _, it := range o.Items {
					units += it.Quantity
				}
				t.row(o.ID, dash(o.UserID), dash(o.Status), units, storefront.FormatPrice(o.Total), dash(o.CreatedAt))
			}
			return t.flush()
		}
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "mine",
			Short: "List orders of the logged-in user",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command) ([]order.Order, error) {
				return rt.client.Orders.ListMine(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "all",
			Short: "List every order",
			Args:  cobra.NoArgs,
			RunE: run(func(cmd *cobra.Command) ([]order.Order, error) {
				return rt.client.Orders.ListAll(cmd.Context())
			}),
		},
	)
	return cmd
}

func metricsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show catalog click metrics",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "top",
			Short: "Most viewed mangas",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				items, err := rt.client.Metrics.Top(cmd.Context())
				if err != nil {
					return err
				}
				t := newTable(cmd.OutOrStdout(), "ID", "TITLE", "CLICKS")
				for _, it := range items {
					t.row(dash(it.ProductID), dash(it.Title), it.Clicks)
				}
				return t.flush()
			},
		},
		&cobra.Command{
			Use:   "ranking",
			Short: "Categories ranked by views",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ranks, err := rt.client.Metrics.CategoryRanking(cmd.Context())
				if err != nil {
					return err
				}
				t := newTable(cmd.OutOrStdout(), "RANK", "CATEGORY", "NAME", "CLICKS")
				for i, r := range ranks {
					t.row(i+1, dash(r.CategoryID), dash(r.Name), r.Clicks)
				}
				return t.flush()
			},
		},
	)
	return cmd
}

func recommendationsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "recommendations",
		Short: "List recommended mangas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := rt.client.Recommendations.List(cmd.Context())
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
}

func dashboardCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Load the admin panel and summarize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt.admin()
			if err := a.Load(cmd.Context()); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			t := newTable(w, "RESOURCE", "COUNT")
			t.row("mangas", len(a.Products()))
			t.row("authors", len(a.Authors()))
			t.row("categories", len(a.Categories()))
			if err := t.flush(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "\nExport: %s\n", a.ExportURL())
			return nil
		},
	}
}
