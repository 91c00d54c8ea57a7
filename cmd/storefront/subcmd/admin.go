package subcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vjzest/architect-storefront/internal/api"
)

func init() {
	RootCmd.AddCommand(NewAdminCommand())
}

// NewAdminCommand groups back-office verbs for protected resources. Every
// subcommand needs an admin or seller session.
func NewAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Back-office operations on protected resources",
	}
	cmd.AddCommand(newAdminFAQCommand())
	cmd.AddCommand(newAdminCategoryCommand())
	cmd.AddCommand(newAdminMediaCommand())
	cmd.AddCommand(newAdminTestimonialCommand())
	return cmd
}

func newAdminFAQCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "faq",
		Short: "Manage published FAQs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <question> <answer>",
		Short: "Publish a FAQ entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			faq, err := a.Resources.FAQs.Create(cmd.Context(), map[string]string{
				"question": args[0],
				"answer":   args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("created faq %s\n", faq.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a FAQ entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return a.Resources.FAQs.Delete(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newAdminCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage product categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <slug>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			category, err := a.Resources.Categories.Create(cmd.Context(), map[string]string{
				"name": args[0],
				"slug": args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("created category %s\n", category.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return a.Resources.Categories.Delete(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newAdminMediaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Manage uploaded assets",
	}

	var name string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			if name == "" {
				name = filepath.Base(args[0])
			}

			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			item, err := a.Resources.Media.CreateMultipart(cmd.Context(),
				map[string]string{"name": name},
				[]api.File{{Field: "file", Name: filepath.Base(args[0]), Contents: contents}},
			)
			if err != nil {
				return err
			}
			fmt.Printf("uploaded %s as %s\n", name, item.ID)
			return nil
		},
	}
	upload.Flags().StringVar(&name, "name", "", "display name (defaults to the file name)")

	cmd.AddCommand(upload)
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()
			return a.Resources.Media.Delete(cmd.Context(), args[0])
		},
	})
	return cmd
}

func newAdminTestimonialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testimonial",
		Short: "Manage published testimonials",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name> <quote>",
		Short: "Publish a testimonial",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, stop, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer stop()

			testimonial, err := a.Resources.Testimonials.Create(cmd.Context(), map[string]string{
				"name":  args[0],
				"quote": args[1],
			})
			if err != nil {
				return err
			}
			fmt.Printf("created testimonial %s\n", testimonial.ID)
			return nil
		},
	})
	return cmd
}
