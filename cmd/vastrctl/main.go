package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mahamusharaf/vastr-storefront/internal/app"
	"github.com/mahamusharaf/vastr-storefront/internal/config"
	"github.com/mahamusharaf/vastr-storefront/internal/domain"
	"github.com/mahamusharaf/vastr-storefront/internal/session"
	"github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/health"
	"github.com/mahamusharaf/vastr-storefront/pkg/logger"
)

var application *app.App

var rootCmd = &cobra.Command{
	Use:           "vastrctl",
	Short:         "Vastr Fashion storefront client",
	Long:          "vastrctl drives the Vastr Fashion storefront from the terminal: browse the catalog, manage the local wishlist, and sign in or out.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New("vastrctl", cfg.LogLevel)
		application, err = app.New(cfg, log)
		if err != nil {
			return err
		}
		// Pick up a session left by a previous invocation.
		application.Session.Restore(cmd.Context())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application != nil {
			return application.Close()
		}
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Load the home feed (products, brands, categories)",
	RunE: func(cmd *cobra.Command, args []string) error {
		feed := application.Aggregator.LoadHomeFeed(cmd.Context())
		saved := application.Focus.SavedSet(cmd.Context())

		fmt.Printf("Products (%d):\n", len(feed.Products))
		for _, p := range feed.Products {
			printProduct(p, saved[p.ID])
		}
		fmt.Printf("\nBrands (%d):\n", len(feed.Brands))
		for _, b := range feed.Brands {
			fmt.Printf("  %-28s %d products\n", b.Name, b.ProductCount)
		}
		fmt.Printf("\nCategories (%d):\n", len(feed.Categories))
		for _, c := range feed.Categories {
			fmt.Printf("  %-28s %d products (%.1f%%), avg %.2f\n",
				c.Name, c.ProductCount, c.Percentage, c.AvgPrice)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		application.Search.Search(cmd.Context(), query)

		snap := application.Search.Snapshot()
		if len(snap.Results) == 0 {
			fmt.Printf("No products found for %q.\n", query)
			return nil
		}
		saved := application.Focus.SavedSet(cmd.Context())
		fmt.Printf("Found %d products for %q:\n", len(snap.Results), query)
		for _, p := range snap.Results {
			printProduct(p, saved[p.ID])
		}
		return nil
	},
}

var wishlistCmd = &cobra.Command{
	Use:   "wishlist",
	Short: "Manage the local wishlist",
}

var wishlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show saved products",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := application.Focus.OnFocus(cmd.Context(), "wishlist")
		if len(entries) == 0 {
			fmt.Println("Wishlist is empty.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("  %-12s %-40s %.2f  saved %s\n",
				e.Product.ID, e.Product.Title, e.Product.PriceMin,
				e.SavedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var wishlistToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Save a product, or remove it if already saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		product, err := application.Catalog.GetProduct(ctx, args[0])
		if err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		saved, err := application.Wishlist.Toggle(ctx, *product)
		if err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		if saved {
			fmt.Printf("Saved %q to wishlist.\n", product.Title)
		} else {
			fmt.Printf("Removed %q from wishlist.\n", product.Title)
		}
		return nil
	},
}

var wishlistRemoveCmd = &cobra.Command{
	Use:   "remove <product-id>",
	Short: "Remove a product from the wishlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Wishlist.Remove(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		fmt.Println("Removed.")
		return nil
	},
}

var wishlistClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved product",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Wishlist.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		fmt.Println("Wishlist cleared.")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <email> <password>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := application.Session.Register(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		fmt.Println(msg)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email> <password>",
	Short: "Sign in and persist the session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := application.Session.Login(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("%s", errors.UserMessage(err))
		}
		fmt.Printf("Signed in as %s.\n", sess.Profile.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.Session.Logout(cmd.Context()); err != nil {
			// Local cleanup already happened; the session is gone either way.
			fmt.Println("Signed out (some local cleanup failed).")
			return nil
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the local store and catalog API",
	RunE: func(cmd *cobra.Command, args []string) error {
		report := application.Health.Run(cmd.Context())
		for name, check := range report.Checks {
			if check.Status == health.StatusUp {
				fmt.Printf("  %-10s up\n", name)
			} else {
				fmt.Printf("  %-10s down (%s)\n", name, check.Error)
			}
		}
		fmt.Printf("Overall: %s\n", report.Status)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if application.Session.State() != session.StateAuthenticated {
			fmt.Println("Not signed in.")
			return nil
		}
		sess := application.Session.Current()
		fmt.Printf("Signed in as %s", sess.Profile.Email)
		if sess.Profile.Name != "" {
			fmt.Printf(" (%s)", sess.Profile.Name)
		}
		fmt.Println()
		if !sess.ExpiresAt.IsZero() {
			fmt.Printf("Session expires %s.\n", sess.ExpiresAt.Format("2006-01-02 15:04 MST"))
		}
		return nil
	},
}

func printProduct(p domain.Product, saved bool) {
	marker := " "
	if saved {
		marker = "*"
	}
	line := fmt.Sprintf("%s %-12s %-40s %.2f", marker, p.ID, p.Title, p.PriceMin)
	if p.HasDiscount() {
		line += fmt.Sprintf(" (was %.2f, -%d%%)", p.OriginalPrice, p.DiscountPercent())
	}
	if !p.InStock {
		line += "  [out of stock]"
	}
	fmt.Println(line)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	wishlistCmd.AddCommand(wishlistListCmd, wishlistToggleCmd, wishlistRemoveCmd, wishlistClearCmd)
	rootCmd.AddCommand(feedCmd, searchCmd, wishlistCmd, registerCmd, loginCmd, logoutCmd, whoamiCmd, statusCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
