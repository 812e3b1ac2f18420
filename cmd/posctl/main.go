package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/retailpos/internal/app"
	"github.com/edvin/retailpos/internal/config"
	"github.com/edvin/retailpos/internal/logging"
	"github.com/edvin/retailpos/internal/posctl"
	"github.com/edvin/retailpos/internal/seed"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "seed":
		fs := flag.NewFlagSet("seed", flag.ExitOnError)
		file := fs.String("f", "", "Path to seed file, YAML or CSV (required)")
		reset := fs.Bool("reset", false, "Delete every product before seeding")
		fs.Parse(os.Args[2:])

		if *file == "" {
			fmt.Fprintln(os.Stderr, "Error: -f flag is required")
			fs.Usage()
			os.Exit(1)
		}

		seedFile, err := seed.Load(*file)
		if err != nil {
			fatal(err)
		}
		withApp(func(ctx context.Context, a *app.Application) error {
			res, err := a.Seeder().Apply(ctx, seedFile, *reset)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %s: %d folders, %d products created, %d updated", *file, res.FoldersUpserted, res.Created, res.Updated)
			if *reset {
				fmt.Printf(", %d deleted", res.Deleted)
			}
			fmt.Println()
			return nil
		})

	case "reset-inventory":
		fs := flag.NewFlagSet("reset-inventory", flag.ExitOnError)
		quantity := fs.Int("quantity", 10, "Stock level to set on every active product")
		fs.Parse(os.Args[2:])

		withApp(func(ctx context.Context, a *app.Application) error {
			n, err := a.Seeder().ResetInventory(ctx, *quantity)
			if err != nil {
				return err
			}
			fmt.Printf("Reset %d products to quantity %d\n", n, *quantity)
			return nil
		})

	case "ensure-folders":
		withApp(func(ctx context.Context, a *app.Application) error {
			folder, err := a.Services.Folder.EnsureDefaultFolders(ctx)
			if err != nil {
				return err
			}
			folders, err := a.Services.Folder.RecalculateCounts(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Default folder %q: %s\n", folder.Name, folder.ID.Hex())
			for _, f := range folders {
				fmt.Printf("  %-3d %-24s %4d products\n", f.Order, f.Name, f.ProductCount)
			}
			return nil
		})

	case "sync-snapshot":
		withApp(func(ctx context.Context, a *app.Application) error {
			n, err := a.Services.Inventory.SyncSnapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot written with %d items\n", n)
			return nil
		})

	case "export-payments":
		fs := flag.NewFlagSet("export-payments", flag.ExitOnError)
		out := fs.String("o", "payments.csv", "Output CSV file, - for stdout")
		fs.Parse(os.Args[2:])

		withApp(func(ctx context.Context, a *app.Application) error {
			w := os.Stdout
			if *out != "-" {
				f, err := os.Create(*out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := a.Services.Payment.ExportCSV(ctx, w)
			if err != nil {
				return err
			}
			if *out != "-" {
				fmt.Printf("Exported %d payments to %s\n", n, *out)
			}
			return nil
		})

	case "refresh-token":
		cfg, logger := loadConfig()
		in := app.NewIntegrations(cfg, logger)
		if in.OAuth == nil {
			fatal(fmt.Errorf("GHL is not configured: set GHL_CLIENT_ID, GHL_CLIENT_SECRET and GHL_REDIRECT_URI"))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		token, err := in.OAuth.Refresh(ctx)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("Token refreshed for location %s, expires %s\n", token.LocationID, token.Expiry.Format(time.RFC3339))

	case "status", "terminal-diagnose":
		fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
		apiURL := fs.String("api", "http://localhost:4242", "POS API base URL")
		fs.Parse(os.Args[2:])

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		client := posctl.NewClient(*apiURL)

		var err error
		if os.Args[1] == "status" {
			err = posctl.Status(ctx, client, os.Stdout)
		} else {
			err = posctl.Diagnose(ctx, client, os.Stdout)
		}
		if err != nil {
			fatal(err)
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, zerolog.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fatal(fmt.Errorf("load config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		fatal(fmt.Errorf("invalid config: %w", err))
	}
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	return cfg, logging.NewLogger(cfg, "posctl")
}

// withApp connects to the backing stores, runs fn and disconnects.
func withApp(fn func(ctx context.Context, a *app.Application) error) {
	cfg, logger := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}
	err = fn(ctx, a)
	a.Close(context.Background())
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage:
  posctl seed -f <seed.yaml|seed.csv> [-reset]   Upsert folders and products from a seed file
  posctl reset-inventory [-quantity 10]          Set every active product's stock level
  posctl ensure-folders                          Create the Unassigned folder and recount products
  posctl sync-snapshot                           Write the live GHL catalog to the inventory snapshot
  posctl export-payments [-o payments.csv]       Export logged payments as CSV
  posctl refresh-token                           Refresh the stored GHL OAuth token
  posctl status [-api URL]                       Show readiness of a running API
  posctl terminal-diagnose [-api URL]            Show Stripe Terminal diagnostics of a running API`)
}
