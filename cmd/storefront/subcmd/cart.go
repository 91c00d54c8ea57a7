package subcmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vjzest/architect-storefront/internal/cart"
	"github.com/vjzest/architect-storefront/internal/wishlist"
)

func init() {
	RootCmd.AddCommand(NewCartCommand())
	RootCmd.AddCommand(NewWishlistCommand())
}

type CartAddCommand struct {
	Quantity int
}

func NewCartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	addCmd := &CartAddCommand{}
	add := &cobra.Command{
		Use:   "add <productID>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE:  addCmd.run,
	}
	add.Flags().IntVarP(&addCmd.Quantity, "quantity", "q", 1, "quantity")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show the cart",
		RunE:  runCartList,
	}

	update := &cobra.Command{
		Use:   "update <productID> <quantity>",
		Short: "Change a line's quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var qty int
			if _, err := fmt.Sscanf(args[1], "%d", &qty); err != nil {
				return fmt.Errorf("quantity must be a number: %w", err)
			}
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			if err := a.Cart.UpdateQuantity(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			fmt.Printf("cart total: %.0f\n", a.Cart.Total())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <productID>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			if err := a.Cart.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("cart total: %.0f\n", a.Cart.Total())
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return a.Cart.Clear(cmd.Context())
		},
	}

	cmd.AddCommand(add, list, update, remove, clear)
	return cmd
}

func (c *CartAddCommand) run(cmd *cobra.Command, args []string) error {
	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	product, err := a.Resources.Products.FetchOne(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	item := cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.Image,
		Price:     product.Price,
		Quantity:  c.Quantity,
	}
	if err := a.Cart.AddItem(cmd.Context(), item); err != nil {
		return err
	}
	fmt.Printf("added %s, cart total: %.0f\n", product.Name, a.Cart.Total())
	return nil
}

func runCartList(cmd *cobra.Command, args []string) error {
	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	items := a.Cart.Items()
	if len(items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	w := table()
	fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE\tQTY\tLINE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%d\t%.0f\n",
			item.ProductID, item.Name, item.Price, item.Quantity, item.Price*float64(item.Quantity))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("total: %.0f\n", a.Cart.Total())
	return nil
}

func NewWishlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <productID>",
		Short: "Add a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			product, err := a.Resources.Products.FetchOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.Wishlist.Add(cmd.Context(), wishlist.Item{
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     product.Price,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			items := a.Wishlist.Items()
			if len(items) == 0 {
				fmt.Println("wishlist is empty")
				return nil
			}
			w := table()
			fmt.Fprintln(w, "PRODUCT\tNAME\tPRICE")
			for _, item := range items {
				fmt.Fprintf(w, "%s\t%s\t%.0f\n", item.ProductID, item.Name, item.Price)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <productID>",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return a.Wishlist.Remove(cmd.Context(), args[0])
		},
	})
	return cmd
}
