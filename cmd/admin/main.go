package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sky_tours/internal/config"
	"sky_tours/internal/logger"
	"sky_tours/internal/ordering"
	"sky_tours/internal/seed"
)

var rootCmd = &cobra.Command{
	Use:   "skytours-admin",
	Short: "Management commands for the Sky Tours platform",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetupCLI()
		config.InitDB()
	},
}

var (
	orderDestinationSlug string
	orderDryRun          bool
)

var orderTripsCmd = &cobra.Command{
	Use:   "order-trips",
	Short: "Normalize trip ordering per destination",
	Long: "Recomputes the dense 1-based destination_order rank for every primary trip " +
		"of each destination. Secondary trips (destination listed as an additional " +
		"stop) are counted for reporting only.",
	RunE: runOrderTrips,
}

func runOrderTrips(cmd *cobra.Command, args []string) error {
	normalizer := ordering.NewNormalizer(config.GetDB())

	results, err := normalizer.Normalize(orderDestinationSlug, orderDryRun)
	if err != nil {
		if errors.Is(err, ordering.ErrDestinationNotFound) {
			fmt.Fprintf(os.Stderr, "No destination found for slug '%s'\n", orderDestinationSlug)
			return nil
		}
		return err
	}

	for _, result := range results {
		if orderDryRun {
			fmt.Printf("%s: %d primary, %d secondary; %d trip(s) would be updated.\n",
				result.Destination.Name, result.PrimaryCount, result.SecondaryCount, len(result.UpdatedTrips))
		} else {
			fmt.Printf("%s: reordered %d primary and %d secondary trip(s); %d updated.\n",
				result.Destination.Name, result.PrimaryCount, result.SecondaryCount, len(result.UpdatedTrips))
		}
	}

	total := ordering.TotalUpdated(results)
	if orderDryRun {
		fmt.Printf("Dry run complete. %d trip(s) would be updated.\n", total)
	} else {
		fmt.Printf("Ordering complete. %d trip(s) updated.\n", total)
	}
	return nil
}

var exportOutput string

var exportOrderCmd = &cobra.Command{
	Use:   "export-order",
	Short: "Export destination/trip ordering to a readable text file",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := ordering.NewExporter(config.GetDB()).Export(exportOutput)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote destination/trip ordering report with %d destination(s) to %s\n", count, exportOutput)
		return nil
	},
}

var (
	seedDryRun        bool
	seedUnfeatureRest bool
)

var seedDestinationsCmd = &cobra.Command{
	Use:   "seed-destinations",
	Short: "Seed the canonical destination set and featured grid positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := seed.Destinations(config.GetDB(), seed.Options{
			DryRun:        seedDryRun,
			UnfeatureRest: seedUnfeatureRest,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created: %d, updated: %d, unchanged: %d, unfeatured: %d\n",
			len(summary.Created), len(summary.Updated), len(summary.Unchanged), len(summary.Unfeatured))
		if seedDryRun {
			fmt.Println("Dry run: no changes were saved.")
		}
		return nil
	},
}

func init() {
	orderTripsCmd.Flags().StringVar(&orderDestinationSlug, "destination", "", "Restrict ordering to a single destination by slug")
	orderTripsCmd.Flags().BoolVar(&orderDryRun, "dry-run", false, "Show the changes without saving them")

	exportOrderCmd.Flags().StringVar(&exportOutput, "output", "destination_trip_order.txt", "Destination path for the generated text file")

	seedDestinationsCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Show what would change without writing to the database")
	seedDestinationsCmd.Flags().BoolVar(&seedUnfeatureRest, "unfeature-rest", false, "Unfeature destinations outside the featured grid")

	rootCmd.AddCommand(orderTripsCmd, exportOrderCmd, seedDestinationsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
