package ordering

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sky_tours/internal/models"
)

// ErrDestinationNotFound is returned when a slug filter matches nothing.
var ErrDestinationNotFound = errors.New("destination not found")

// errDryRunRollback forces the surrounding transaction to roll back after a
// dry run has executed the full write path.
var errDryRunRollback = errors.New("dry run rollback")

// ReorderResult describes what Normalize did (or would do) for one destination.
type ReorderResult struct {
	Destination    models.Destination
	PrimaryCount   int
	SecondaryCount int
	UpdatedTrips   []models.Trip
}

// Normalizer recomputes the dense 1-based DestinationOrder rank for every
// primary trip of a destination. Secondary trips (destination listed only as
// an additional stop) are ranked with the same rule for reporting, but their
// rank is never persisted.
type Normalizer struct {
	db *gorm.DB
}

func NewNormalizer(db *gorm.DB) *Normalizer {
	return &Normalizer{db: db}
}

// Normalize processes every destination, or just the one matching slugFilter
// when it is non-empty. The whole batch runs in a single transaction; with
// dryRun the writes still execute (so DB constraints are evaluated exactly as
// in a real run) and the transaction is rolled back at the end.
func (n *Normalizer) Normalize(slugFilter string, dryRun bool) ([]ReorderResult, error) {
	destinations, err := n.fetchDestinations(slugFilter)
	if err != nil {
		return nil, err
	}
	if slugFilter != "" && len(destinations) == 0 {
		return nil, fmt.Errorf("%w: no destination for slug %q", ErrDestinationNotFound, slugFilter)
	}

	results := make([]ReorderResult, 0, len(destinations))

	err = n.db.Transaction(func(tx *gorm.DB) error {
		for i := range destinations {
			result, err := reorderForDestination(tx, &destinations[i])
			if err != nil {
				return err
			}
			results = append(results, result)
		}
		if dryRun {
			return errDryRunRollback
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRunRollback) {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"destinations": len(results),
		"updated":      TotalUpdated(results),
		"dry_run":      dryRun,
	}).Info("trip ordering normalized")

	return results, nil
}

// TotalUpdated sums the changed-trip counts across a batch of results.
func TotalUpdated(results []ReorderResult) int {
	total := 0
	for _, r := range results {
		total += len(r.UpdatedTrips)
	}
	return total
}

func (n *Normalizer) fetchDestinations(slugFilter string) ([]models.Destination, error) {
	query := n.db.Order("name").
		Preload("PrimaryTrips").
		Preload("SecondaryTrips")
	if slugFilter != "" {
		query = query.Where("slug = ?", slugFilter)
	}

	var destinations []models.Destination
	if err := query.Find(&destinations).Error; err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}
	return destinations, nil
}

func reorderForDestination(tx *gorm.DB, destination *models.Destination) (ReorderResult, error) {
	primary := sortTrips(destination.PrimaryTrips)
	secondary := sortTrips(secondaryOnly(destination))

	var updated []models.Trip
	for i := range primary {
		rank := i + 1
		if primary[i].DestinationOrder == nil || *primary[i].DestinationOrder != rank {
			assigned := rank
			primary[i].DestinationOrder = &assigned
			updated = append(updated, primary[i])
		}
	}

	if len(updated) > 0 {
		if err := persistOrders(tx, updated); err != nil {
			return ReorderResult{}, fmt.Errorf("persist ordering for %q: %w", destination.Name, err)
		}
	}

	return ReorderResult{
		Destination:    *destination,
		PrimaryCount:   len(primary),
		SecondaryCount: len(secondary),
		UpdatedTrips:   updated,
	}, nil
}

// secondaryOnly drops rows whose primary destination is the destination
// itself; those already belong to the primary set.
func secondaryOnly(destination *models.Destination) []models.Trip {
	var trips []models.Trip
	for _, trip := range destination.SecondaryTrips {
		if trip.DestinationID != destination.ID {
			trips = append(trips, trip)
		}
	}
	return trips
}

// sortTrips returns a copy ordered by (no existing order, existing order,
// lowercased title, id). Trips that were already ranked keep their relative
// order ahead of never-ranked ones; the id makes the order total.
func sortTrips(trips []models.Trip) []models.Trip {
	sorted := make([]models.Trip, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return tripLess(&sorted[i], &sorted[j])
	})
	return sorted
}

func tripLess(a, b *models.Trip) bool {
	aUnranked := a.DestinationOrder == nil
	bUnranked := b.DestinationOrder == nil
	if aUnranked != bUnranked {
		return bUnranked
	}
	ao, bo := orderOrZero(a), orderOrZero(b)
	if ao != bo {
		return ao < bo
	}
	at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
	if at != bt {
		return at < bt
	}
	return a.ID < b.ID
}

func orderOrZero(t *models.Trip) int {
	if t.DestinationOrder == nil {
		return 0
	}
	return *t.DestinationOrder
}

// persistOrders writes all changed ranks for one destination in a single
// batched UPDATE instead of one statement per trip.
func persistOrders(tx *gorm.DB, updated []models.Trip) error {
	var sb strings.Builder
	args := make([]interface{}, 0, len(updated)*3)

	sb.WriteString("UPDATE trips SET destination_order = CASE id")
	for _, trip := range updated {
		sb.WriteString(" WHEN ? THEN ?")
		args = append(args, trip.ID, *trip.DestinationOrder)
	}
	sb.WriteString(" END WHERE id IN (")
	for i, trip := range updated {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("?")
		args = append(args, trip.ID)
	}
	sb.WriteString(")")

	return tx.Exec(sb.String(), args...).Error
}
