package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

func record() entity.HotelRate {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	return entity.HotelRate{
		ID:          uuid.MustParse("0b9f7c1e-2d3a-4b5c-8d9e-0f1a2b3c4d5e"),
		PDFFilename: "seaview.pdf",
		StructuredRecord: entity.StructuredRecord{
			HotelName: entity.Str("Seaview Resort"),
			RateSeasons: []entity.RateSeason{
				{Season: entity.Str("Low"), Rates: &entity.Rates{RO: entity.Str("90"), FB: entity.Str("170")}},
				{Season: entity.Str("High")},
			},
			MealPlans: []entity.MealPlanEntry{{Plan: entity.Str("HB"), Rate: entity.Str("USD 30 pp")}},
		},
		ProcessingMethod: constants.MethodNative,
		ValidationScore:  80,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestBuildWorkbook(t *testing.T) {
	b, err := BuildWorkbook(record())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetSummary, SheetSeasons, SheetRooms, SheetMealPlans}, f.GetSheetList())

	seasons, err := f.GetRows(SheetSeasons)
	require.NoError(t, err)
	require.Len(t, seasons, 3)
	assert.Equal(t, []string{"Season", "Start", "End", "RO", "BB", "HB", "FB"}, seasons[0])
	assert.Equal(t, "Low", seasons[1][0])
	assert.Equal(t, "90", seasons[1][3])
	assert.Equal(t, "170", seasons[1][6])

	rooms, err := f.GetRows(SheetRooms)
	require.NoError(t, err)
	assert.Len(t, rooms, 1, "header only when no rooms were extracted")

	name, err := f.GetCellValue(SheetSummary, "B4")
	require.NoError(t, err)
	assert.Equal(t, "Seaview Resort", name)
}

func TestXLSXSink_Insert(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink := NewXLSXSink(dir, nil)
	rec := record()

	require.NoError(t, sink.Ping(context.Background()))
	require.NoError(t, sink.Insert(context.Background(), constants.DefaultTable, rec))

	path := sink.Path(constants.DefaultTable, rec)
	assert.Equal(t, "hotels_rate_data_seaview_0b9f7c1e.xlsx", filepath.Base(path))
	_, err := os.Stat(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestXLSXSink_InvalidRecord(t *testing.T) {
	rec := record()
	rec.PDFFilename = ""
	err := NewXLSXSink(t.TempDir(), nil).Insert(context.Background(), constants.DefaultTable, rec)
	require.ErrorIs(t, err, common.ErrPersistence)
}
