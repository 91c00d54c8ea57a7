package subcmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vjzest/architect-storefront/internal/app/domain/commerce"
	"github.com/vjzest/architect-storefront/internal/payment"
)

func init() {
	RootCmd.AddCommand(NewCheckoutCommand())
	RootCmd.AddCommand(NewOrdersCommand())
}

type CheckoutCommand struct {
	Method   string
	Name     string
	Address  string
	City     string
	PostCode string
	Country  string
	Phone    string
}

func NewCheckoutCommand() *cobra.Command {
	checkoutCmd := &CheckoutCommand{}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		RunE:  checkoutCmd.run,
	}
	cmd.Flags().StringVarP(&checkoutCmd.Method, "method", "m", "gateway", "payment method (gateway, wallet, card)")
	cmd.Flags().StringVar(&checkoutCmd.Name, "name", "", "recipient full name")
	cmd.Flags().StringVar(&checkoutCmd.Address, "address", "", "street address")
	cmd.Flags().StringVar(&checkoutCmd.City, "city", "", "city")
	cmd.Flags().StringVar(&checkoutCmd.PostCode, "postal-code", "", "postal code")
	cmd.Flags().StringVar(&checkoutCmd.Country, "country", "India", "country")
	cmd.Flags().StringVar(&checkoutCmd.Phone, "phone", "", "contact phone")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("city")
	cmd.MarkFlagRequired("postal-code")
	return cmd
}

func (c *CheckoutCommand) run(cmd *cobra.Command, args []string) error {
	a, stop, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer stop()

	shipping := commerce.ShippingAddress{
		FullName: c.Name,
		Line1:    c.Address,
		City:     c.City,
		PostCode: c.PostCode,
		Country:  c.Country,
		Phone:    c.Phone,
	}

	conf, err := a.Checkout.PlaceOrder(cmd.Context(), c.Method, shipping, promptHandoff)
	if err != nil {
		return err
	}

	fmt.Printf("order %s confirmed via %s\n", conf.Order.ID, conf.Provider)
	fmt.Printf("total: %.2f (receipt %s)\n", conf.Order.Total, conf.Receipt)
	return nil
}

// promptHandoff walks the user through the provider's client-side step. The
// provider page or SDK runs outside the CLI; the user pastes the callback
// reference back in.
func promptHandoff(sess payment.Session) (payment.Result, error) {
	fmt.Printf("payment session %s opened with %s\n", sess.Reference, sess.Provider)
	if sess.RedirectURL != "" {
		fmt.Printf("complete the payment at: %s\n", sess.RedirectURL)
	}
	fmt.Fprint(os.Stderr, "paste the payment reference (empty to use the session reference): ")

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return payment.Result{}, fmt.Errorf("read payment reference: %w", err)
	}
	return payment.Result{Reference: strings.TrimSpace(line)}, nil
}

func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect placed orders",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			orders, err := a.Resources.Orders.FetchList(cmd.Context(), nil)
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintln(w, "ID\tTOTAL\tPAID\tSTATUS")
			for _, o := range orders {
				fmt.Fprintf(w, "%s\t%.2f\t%t\t%s\n", o.ID, o.Total, o.IsPaid, o.Status)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			order, err := a.Resources.Orders.FetchOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := table()
			fmt.Fprintf(w, "id\t%s\n", order.ID)
			fmt.Fprintf(w, "total\t%.2f\n", order.Total)
			fmt.Fprintf(w, "paid\t%t\n", order.IsPaid)
			fmt.Fprintf(w, "ship to\t%s, %s %s\n", order.Shipping.FullName, order.Shipping.City, order.Shipping.PostCode)
			for _, item := range order.Items {
				fmt.Fprintf(w, "item\t%s x%d @ %.0f\n", item.Name, item.Quantity, item.Price)
			}
			return w.Flush()
		},
	})
	return cmd
}
