package ordering

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesReport(t *testing.T) {
	db := setupDB(t)
	siwa := makeDestination(t, db, "Siwa")
	cairo := makeDestination(t, db, "Cairo")
	makeTrip(t, db, siwa, "Salt Lakes Escape", intPtr(1))
	makeTrip(t, db, cairo, "Cairo and Oasis Combo", nil, siwa)

	output := filepath.Join(t.TempDir(), "reports", "destination_trip_order.txt")
	count, err := NewExporter(db).Export(output)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	report := string(raw)

	assert.Contains(t, report, "Destination: Siwa (slug: siwa)")
	assert.Contains(t, report, "- Salt Lakes Escape (slug: salt-lakes-escape)")
	assert.Contains(t, report, "Destination order: 1")
	assert.Contains(t, report, "Appears as additional destination in:")
	assert.Contains(t, report, "- Cairo and Oasis Combo (slug: cairo-and-oasis-combo)")
	assert.Contains(t, report, "Additional destinations: Siwa")
}

func TestExportDestinationWithoutTrips(t *testing.T) {
	db := setupDB(t)
	makeDestination(t, db, "Farafra")

	output := filepath.Join(t.TempDir(), "report.txt")
	count, err := NewExporter(db).Export(output)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Primary trips: none")
	assert.Contains(t, string(raw), "Appears as additional destination in: none")
}
