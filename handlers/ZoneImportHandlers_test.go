package handlers

import (
	"errors"
	"strings"
	"testing"

	"backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importHeader() map[string]int {
	indices := make(map[string]int, len(zoneImportColumns))
	for i, name := range zoneImportColumns {
		indices[name] = i
	}
	return indices
}

func TestParseBoolCell(t *testing.T) {
	for _, s := range []string{"true", "TRUE", " yes ", "1", "y", "Y"} {
		assert.True(t, parseBoolCell(s), s)
	}
	for _, s := range []string{"", "false", "no", "0", "n", "maybe"} {
		assert.False(t, parseBoolCell(s), s)
	}
}

func TestParseZoneRowFullRow(t *testing.T) {
	row := []string{"560001", "b", "bengaluru", "karnataka", "south", "yes", "no", "true", "2", "1.2"}

	entry, err := parseZoneRow(row, importHeader())
	require.NoError(t, err)

	assert.Equal(t, "560001", entry.Pincode)
	assert.Equal(t, "B", entry.Zone)
	assert.Equal(t, "Bengaluru", entry.City)
	assert.Equal(t, "Karnataka", entry.State)
	assert.Equal(t, "South", entry.Region)
	assert.True(t, entry.IsMetro)
	assert.False(t, entry.IsRemote)
	assert.True(t, entry.CodAvailable)
	assert.Equal(t, 2, entry.ExpectedDeliveryDays)
	assert.Equal(t, 1.2, entry.ZoneMultiplier)
}

func TestParseZoneRowDefaults(t *testing.T) {
	// Only pincode and zone filled; file omitted the optional columns
	row := []string{"110001", "A"}

	entry, err := parseZoneRow(row, importHeader())
	require.NoError(t, err)

	assert.True(t, entry.CodAvailable)
	assert.Equal(t, 1, entry.ExpectedDeliveryDays)
	assert.Equal(t, 1.0, entry.ZoneMultiplier)
	assert.False(t, entry.IsMetro)
}

func TestParseZoneRowRejectsBadCells(t *testing.T) {
	header := importHeader()

	cases := []struct {
		name string
		row  []string
	}{
		{"short pincode", []string{"5600", "B"}},
		{"unknown zone", []string{"560001", "Q"}},
		{"bad delivery days", []string{"560001", "B", "", "", "", "", "", "", "soon", ""}},
		{"bad multiplier", []string{"560001", "B", "", "", "", "", "", "", "2", "cheap"}},
		{"zero multiplier", []string{"560001", "B", "", "", "", "", "", "", "2", "0"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseZoneRow(tc.row, header)
			assert.Error(t, err)
		})
	}
}

// memZoneImporter keeps zone rows in a map; writes to pincodes listed in
// failing report an error without touching the map.
type memZoneImporter struct {
	nextID  int
	byPin   map[string]models.ZoneEntry
	idByPin map[string]int
	failing map[string]error
}

func newMemZoneImporter() *memZoneImporter {
	return &memZoneImporter{
		byPin:   make(map[string]models.ZoneEntry),
		idByPin: make(map[string]int),
		failing: make(map[string]error),
	}
}

func (m *memZoneImporter) FindZoneID(pincode string) (int, bool, error) {
	id, ok := m.idByPin[pincode]
	return id, ok, nil
}

func (m *memZoneImporter) UpdateZone(id int, entry models.ZoneEntry) error {
	if err := m.failing[entry.Pincode]; err != nil {
		return err
	}
	m.byPin[entry.Pincode] = entry
	return nil
}

func (m *memZoneImporter) InsertZone(entry models.ZoneEntry) error {
	if err := m.failing[entry.Pincode]; err != nil {
		return err
	}
	m.nextID++
	m.idByPin[entry.Pincode] = m.nextID
	m.byPin[entry.Pincode] = entry
	return nil
}

func importFixtureRows() [][]string {
	return [][]string{
		{"560001", "B", "bengaluru", "karnataka", "south", "yes", "no", "true", "2", "1.2"},
		{"110001", "A", "new delhi", "delhi", "north", "yes", "no", "true", "1", "1.0"},
		{"831001", "E", "jamshedpur", "jharkhand", "east", "no", "yes", "false", "6", "1.8"},
	}
}

func TestImportZoneRowsReplayIsIdempotent(t *testing.T) {
	store := newMemZoneImporter()
	header := importHeader()
	rows := importFixtureRows()

	first := importZoneRows(rows, header, store)
	assert.Equal(t, 3, first.Imported)
	assert.Equal(t, 0, first.Skipped)
	assert.Empty(t, first.Errors)

	snapshot := make(map[string]models.ZoneEntry, len(store.byPin))
	for pin, entry := range store.byPin {
		snapshot[pin] = entry
	}

	replay := importZoneRows(rows, header, store)
	assert.Equal(t, 0, replay.Imported)
	assert.Equal(t, 3, replay.Skipped)
	assert.Empty(t, replay.Errors)
	assert.Equal(t, snapshot, store.byPin, "replaying the same file must be a net no-op")

	again := importZoneRows(rows, header, store)
	assert.Equal(t, replay, again, "import statistics must be stable across replays")
}

func TestImportZoneRowsContinuesPastFailedRow(t *testing.T) {
	store := newMemZoneImporter()
	store.failing["110001"] = errors.New("numeric field overflow")

	result := importZoneRows(importFixtureRows(), importHeader(), store)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Index, "header is row 1, failing data row is row 3")
	assert.Contains(t, result.Errors[0].Message, "110001")

	// Rows before and after the failure are written
	assert.Contains(t, store.byPin, "560001")
	assert.Contains(t, store.byPin, "831001")
	assert.NotContains(t, store.byPin, "110001")
}

func TestImportZoneRowsMixesValidationAndWriteOutcomes(t *testing.T) {
	store := newMemZoneImporter()
	rows := append(importFixtureRows(), []string{"bad", "Q"})

	result := importZoneRows(rows, importHeader(), store)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 5, result.Errors[0].Index)
}

func TestReadCSVRowsToleratesRaggedRows(t *testing.T) {
	src := strings.NewReader("pincode,zone,city\n560001,B,Bengaluru\n110001,A\n")

	rows, err := readCSVRows(src)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 3)
	assert.Len(t, rows[2], 2)
}
