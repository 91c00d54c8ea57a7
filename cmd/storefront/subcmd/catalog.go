package subcmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(NewProductsCommand())
	RootCmd.AddCommand(NewPlansCommand())
	RootCmd.AddCommand(NewPackagesCommand())
}

type ProductsListCommand struct {
	Page    int
	Keyword string
}

func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the product catalog",
	}

	listCmd := &ProductsListCommand{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE:  listCmd.run,
	}
	list.Flags().IntVar(&listCmd.Page, "page", 1, "result page")
	list.Flags().StringVar(&listCmd.Keyword, "keyword", "", "filter by keyword")

	show := &cobra.Command{
		Use:   "show <id|slug>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE:  runProductShow,
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (p *ProductsListCommand) run(cmd *cobra.Command, args []string) error {
	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	params := url.Values{}
	if p.Page > 1 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.Keyword != "" {
		params.Set("keyword", p.Keyword)
	}

	products, err := a.Resources.Products.FetchList(cmd.Context(), params)
	if err != nil {
		return err
	}

	w := table()
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tBEDROOMS\tFACING")
	for _, prod := range products {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%d\t%s\n", prod.ID, prod.Name, prod.Price, prod.Bedrooms, prod.Facing)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	page := a.Resources.Products.Pagination()
	if page.Pages > 1 {
		fmt.Printf("page %d of %d (%d products)\n", page.Page, page.Pages, page.Count)
	}
	return nil
}

func runProductShow(cmd *cobra.Command, args []string) error {
	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	ref := args[0]
	product, err := a.Resources.Products.FetchOne(cmd.Context(), ref)
	if err != nil && strings.Contains(ref, "-") {
		// Not an ID; try it as a slug.
		product, err = a.Resources.Products.FetchBySlug(cmd.Context(), ref)
	}
	if err != nil {
		return err
	}

	w := table()
	fmt.Fprintf(w, "id\t%s\n", product.ID)
	fmt.Fprintf(w, "name\t%s\n", product.Name)
	fmt.Fprintf(w, "price\t%.0f\n", product.Price)
	if product.PlotArea != "" {
		fmt.Fprintf(w, "plot area\t%s\n", product.PlotArea)
	}
	if product.Bedrooms > 0 {
		fmt.Fprintf(w, "bedrooms\t%d\n", product.Bedrooms)
	}
	if product.Description != "" {
		fmt.Fprintf(w, "description\t%s\n", product.Description)
	}
	return w.Flush()
}

func NewPlansCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Browse floor plans",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			plans, err := a.Resources.Plans.FetchList(cmd.Context(), nil)
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintln(w, "ID\tTITLE\tPRICE\tPLOT SIZE")
			for _, p := range plans {
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", p.ID, p.Title, p.Price, p.PlotSize)
			}
			return w.Flush()
		},
	})
	return cmd
}

func NewPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Browse construction packages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List construction packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			packages, err := a.Resources.Packages.FetchList(cmd.Context(), nil)
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintln(w, "ID\tNAME\tPRICE/SQFT\tCITY")
			for _, p := range packages {
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n", p.ID, p.Name, p.PricePerSqt, p.City)
			}
			return w.Flush()
		},
	})
	return cmd
}
