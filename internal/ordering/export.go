package ordering

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"sky_tours/internal/models"
)

// Exporter writes a human-readable report of every destination with its
// primary trips (in display order) and the trips that list it as an
// additional stop.
type Exporter struct {
	db *gorm.DB
}

func NewExporter(db *gorm.DB) *Exporter {
	return &Exporter{db: db}
}

// Export writes the report to outputPath, creating parent directories as
// needed, and returns the number of destinations covered.
func (e *Exporter) Export(outputPath string) (int, error) {
	var destinations []models.Destination
	err := e.db.Order("name").
		Preload("PrimaryTrips.Destination").
		Preload("PrimaryTrips.AdditionalDestinations").
		Preload("SecondaryTrips.Destination").
		Preload("SecondaryTrips.AdditionalDestinations").
		Find(&destinations).Error
	if err != nil {
		return 0, fmt.Errorf("load destinations: %w", err)
	}

	content := BuildReport(destinations)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	return len(destinations), nil
}

// BuildReport renders the report body for the given destinations.
func BuildReport(destinations []models.Destination) string {
	var sections []string

	for _, destination := range destinations {
		sections = append(sections, fmt.Sprintf("Destination: %s (slug: %s)", destination.Name, destination.Slug))

		primary := sortTrips(destination.PrimaryTrips)
		additional := make([]models.Trip, len(destination.SecondaryTrips))
		copy(additional, destination.SecondaryTrips)
		sort.SliceStable(additional, func(i, j int) bool {
			an := strings.ToLower(additional[i].Destination.Name)
			bn := strings.ToLower(additional[j].Destination.Name)
			if an != bn {
				return an < bn
			}
			return strings.ToLower(additional[i].Title) < strings.ToLower(additional[j].Title)
		})

		if len(primary) > 0 {
			sections = append(sections, "  Primary trips:")
			for _, trip := range primary {
				sections = append(sections, tripLines(trip, "    ")...)
			}
		} else {
			sections = append(sections, "  Primary trips: none")
		}

		if len(additional) > 0 {
			sections = append(sections, "  Appears as additional destination in:")
			for _, trip := range additional {
				sections = append(sections, tripLines(trip, "    ")...)
			}
		} else {
			sections = append(sections, "  Appears as additional destination in: none")
		}

		sections = append(sections, "")
	}

	return strings.TrimRight(strings.Join(sections, "\n"), "\n") + "\n"
}

func tripLines(trip models.Trip, indent string) []string {
	names := make([]string, 0, len(trip.AdditionalDestinations))
	for _, d := range trip.AdditionalDestinations {
		names = append(names, d.Name)
	}
	sort.Strings(names)

	additionalDisplay := "None"
	if len(names) > 0 {
		additionalDisplay = strings.Join(names, ", ")
	}
	orderDisplay := "None"
	if trip.DestinationOrder != nil {
		orderDisplay = fmt.Sprintf("%d", *trip.DestinationOrder)
	}

	return []string{
		fmt.Sprintf("%s- %s (slug: %s)", indent, trip.Title, trip.Slug),
		fmt.Sprintf("%s  Primary destination: %s", indent, trip.Destination.Name),
		fmt.Sprintf("%s  Destination order: %s", indent, orderDisplay),
		fmt.Sprintf("%s  Additional destinations: %s", indent, additionalDisplay),
	}
}
