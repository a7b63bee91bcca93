// Package main implements the kiosk CLI for building and submitting a
// photo print order. The in-progress order survives between invocations:
// photos live in an embedded database under the data directory and the
// customer details in a small JSON cache next to it.
package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/config"
	"photo-print-orders/internal/engine"
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/preview"
	"photo-print-orders/internal/pricing"
	"photo-print-orders/internal/profile"
	"photo-print-orders/internal/store"
	"photo-print-orders/internal/transport"
)

var (
	customerName  string
	customerEmail string
	customerPhone string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kiosk",
	Short: "Build and submit a photo print order",
	Long: `kiosk manages an in-progress photo print order. Add photos, pick a
print format and quantity for each, and submit the order to the print
server. The order is kept locally until it is submitted or reset, so it
survives between invocations.`,
}

func init() {
	customerCmd.Flags().StringVar(&customerName, "name", "", "customer name")
	customerCmd.Flags().StringVar(&customerEmail, "email", "", "customer e-mail")
	customerCmd.Flags().StringVar(&customerPhone, "phone", "", "customer phone")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(setFormatCmd)
	rootCmd.AddCommand(setQuantityCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(totalCmd)
	rootCmd.AddCommand(customerCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(resetCmd)
}

// session wires the engine to its collaborators for one CLI invocation.
type session struct {
	engine   *engine.Engine
	store    *store.SQLiteStore
	profiles profile.Cache
	logger   *zap.Logger
}

func openSession(ctx context.Context) (*session, error) {
	logger, _ := zap.NewProduction()

	cfg := config.Load()
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	st, err := store.Open(filepath.Join(cfg.DataDir, "orders.db"))
	if err != nil {
		if errors.Is(err, common.ErrStoreUnavailable) {
			return nil, fmt.Errorf("this environment does not support local order storage: %w", err)
		}
		return nil, err
	}

	previews, err := preview.NewFileFactory(filepath.Join(cfg.DataDir, "previews"))
	if err != nil {
		st.Close()
		return nil, err
	}

	profiles := profile.NewFileCache(filepath.Join(cfg.DataDir, "customer.json"), logger)
	sender := transport.NewClient(cfg.UploadURL, logger)

	eng := engine.New(st, sender, previews, profiles, logger)
	if err := eng.Load(ctx); err != nil {
		st.Close()
		return nil, err
	}

	return &session{engine: eng, store: st, profiles: profiles, logger: logger}, nil
}

func (s *session) close() {
	s.store.Close()
	s.logger.Sync()
}

var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Add photos to the order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		var files []engine.FileInput
		for _, path := range args {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			files = append(files, engine.FileInput{
				Name:        filepath.Base(path),
				ContentType: contentTypeFor(path, content),
				Content:     content,
			})
		}

		added, err := s.engine.AddPhotos(ctx, files)
		if err != nil {
			return err
		}
		fmt.Printf("Added %d photo(s). Skipped %d non-image file(s).\n", added, len(files)-added)
		printOrder(s.engine)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the photos in the order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()
		printOrder(s.engine)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Show available print formats and prices",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, format := range pricing.Formats() {
			unit, _ := pricing.UnitPrice(format)
			fmt.Printf("%s (%s)\n", format, pricing.FormatAmount(unit))
		}
	},
}

var setFormatCmd = &cobra.Command{
	Use:   "set-format <id> <format>",
	Short: "Change a photo's print format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		if !pricing.Valid(args[1]) {
			fmt.Printf("Unknown format %q. Run 'kiosk formats' to see the options.\n", args[1])
			return nil
		}
		if err := s.engine.SetFormat(ctx, args[0], args[1]); err != nil {
			return err
		}
		printOrder(s.engine)
		return nil
	},
}

var setQuantityCmd = &cobra.Command{
	Use:   "set-quantity <id> <count>",
	Short: "Change how many prints of a photo to order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.engine.SetQuantity(ctx, args[0], args[1]); err != nil {
			return err
		}
		printOrder(s.engine)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a photo from the order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.engine.Remove(ctx, args[0]); err != nil {
			return err
		}
		printOrder(s.engine)
		return nil
	},
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show the order total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()
		fmt.Printf("Total: %s\n", pricing.FormatAmount(s.engine.ComputeTotal()))
		return nil
	},
}

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Show or update the customer details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		current := s.profiles.Load()
		if customerName != "" {
			current.Name = customerName
		}
		if customerEmail != "" {
			current.Email = customerEmail
		}
		if customerPhone != "" {
			current.Phone = customerPhone
		}
		if cmd.Flags().Changed("name") || cmd.Flags().Changed("email") || cmd.Flags().Changed("phone") {
			if err := s.profiles.Save(current); err != nil {
				return err
			}
		}

		fmt.Printf("Name:  %s\nEmail: %s\nPhone: %s\n", current.Name, current.Email, current.Phone)
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the order to the print server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		customer := s.profiles.Load()
		if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
			fmt.Println("Customer details are incomplete. Set them with 'kiosk customer --name ... --email ... --phone ...'.")
			return nil
		}

		confirmation, err := s.engine.Submit(ctx, customer)
		if errors.Is(err, common.ErrEmptyOrder) {
			fmt.Println("Add at least one photo before submitting the order.")
			return nil
		}
		if common.IsSubmissionFailure(err) {
			fmt.Println("Submitting the order failed. Your photos are still saved; please try again.")
			return err
		}
		if err != nil {
			return err
		}

		printConfirmation(confirmation)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the in-progress order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.engine.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("Order discarded.")
		return nil
	},
}

func printOrder(eng *engine.Engine) {
	entries := eng.Entries()
	if len(entries) == 0 {
		fmt.Println("No photos in the order yet.")
		return
	}
	for _, entry := range entries {
		unit, _ := pricing.UnitPrice(entry.Item.Format)
		lineTotal := unit * float64(entry.Item.Quantity)
		fmt.Printf("%s  %s  %s (%s) x%d = %s\n",
			entry.Item.ID, entry.Item.Name,
			entry.Item.Format, pricing.FormatAmount(unit),
			entry.Item.Quantity, pricing.FormatAmount(lineTotal))
	}
	fmt.Printf("Total: %s\n", pricing.FormatAmount(eng.ComputeTotal()))
}

func printConfirmation(confirmation *models.OrderConfirmation) {
	fmt.Println("Order submitted. Thank you!")
	fmt.Printf("Customer: %s <%s> %s\n",
		confirmation.Customer.Name, confirmation.Customer.Email, confirmation.Customer.Phone)
	for _, photo := range confirmation.Photos {
		fmt.Printf("  %s - %s, %d pcs (%s)\n",
			photo.Name, photo.Format, photo.Quantity, pricing.FormatAmount(photo.LineTotal))
	}
	fmt.Printf("Total price: %s\n", confirmation.TotalPrice)
}

func contentTypeFor(path string, content []byte) string {
	if byExt := mime.TypeByExtension(filepath.Ext(path)); byExt != "" {
		return byExt
	}
	return http.DetectContentType(content)
}
