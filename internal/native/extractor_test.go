package native

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

func loadSheet(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/seaview.txt")
	require.NoError(t, err)
	return string(b)
}

func TestExtractFields_FullSheet(t *testing.T) {
	e := NewExtractor(nil)
	assert.Equal(t, constants.MethodNative, e.Method())

	res, err := e.ExtractFields(context.Background(), loadSheet(t))
	require.NoError(t, err)
	rec := res.Record

	assert.Equal(t, "SEAVIEW RESORT & SPA", entity.Deref(rec.HotelName))
	assert.Equal(t, "12 Beach Road, Mombasa, Kenya", entity.Deref(rec.HotelLocation))
	assert.Equal(t, "+254 700 123 456, reservations@seaview.example", entity.Deref(rec.HotelContact))
	assert.Equal(t, "14:00", entity.Deref(rec.CheckInTime))
	assert.Equal(t, "11:00", entity.Deref(rec.CheckOutTime))
	assert.Equal(t, "Children under 2 stay free; 2-11 years pay 50% of the adult rate. Extra beds on request.",
		entity.Deref(rec.ChildPolicy))
	assert.Equal(t, "Free cancellation up to 14 days before arrival.", entity.Deref(rec.CancellationPolicy))

	require.Len(t, rec.RateSeasons, 3)
	low := rec.RateSeasons[0]
	assert.Equal(t, "Low Season", entity.Deref(low.Season))
	assert.Equal(t, "01/04/2024", entity.Deref(low.StartDate))
	assert.Equal(t, "30/06/2024", entity.Deref(low.EndDate))
	require.NotNil(t, low.Rates)
	assert.Equal(t, "90", entity.Deref(low.Rates.RO))
	assert.Equal(t, "110", entity.Deref(low.Rates.BB))
	assert.Equal(t, "140", entity.Deref(low.Rates.HB))
	assert.Equal(t, "170", entity.Deref(low.Rates.FB))
	assert.Equal(t, "05/01/2025", entity.Deref(rec.RateSeasons[2].EndDate))

	require.Len(t, rec.RoomCategories, 3)
	assert.Equal(t, "Standard Room", entity.Deref(rec.RoomCategories[0].Type))
	assert.Equal(t, "28 m2", entity.Deref(rec.RoomCategories[0].Size))
	assert.Equal(t, "Garden view, queen bed", entity.Deref(rec.RoomCategories[0].Description))
	assert.Equal(t, "Family Suite", entity.Deref(rec.RoomCategories[2].Type))

	require.Len(t, rec.MealPlans, 3)
	assert.Equal(t, "BB", entity.Deref(rec.MealPlans[0].Plan))
	assert.Equal(t, "included", entity.Deref(rec.MealPlans[0].Rate))
	assert.Equal(t, "HB", entity.Deref(rec.MealPlans[1].Plan))
	assert.Equal(t, "Breakfast and dinner", entity.Deref(rec.MealPlans[1].Description))
	assert.Equal(t, "USD 30 pp", entity.Deref(rec.MealPlans[1].Rate))
}

func TestParse_MissingFieldsStayAbsent(t *testing.T) {
	rec := Parse("Hilltop Lodge\nWe are a quiet lodge in the hills.")

	assert.Equal(t, "Hilltop Lodge", entity.Deref(rec.HotelName))
	assert.Nil(t, rec.HotelLocation)
	assert.Nil(t, rec.HotelContact)
	assert.Nil(t, rec.RateSeasons)
	assert.Nil(t, rec.RoomCategories)
	assert.Nil(t, rec.MealPlans)
	assert.Nil(t, rec.CheckInTime)
	assert.Nil(t, rec.CancellationPolicy)
	assert.Equal(t, []string{entity.KeyHotelName}, rec.Present())
}

func TestParse_AlwaysTenKeys(t *testing.T) {
	for _, in := range []string{"", "garbage", loadSheet(t)} {
		m := Parse(in).ToMap()
		assert.Len(t, m, 10)
		for _, k := range entity.StructuredKeys {
			assert.Contains(t, m, k)
		}
	}
}

func TestParse_RateColumnOrderFromHeader(t *testing.T) {
	text := "Season      Dates                    BB    HB\n" +
		"Peak        1 Dec 2024 - 6 Jan 2025  210   250\n"
	rec := Parse(text)
	require.Len(t, rec.RateSeasons, 1)
	s := rec.RateSeasons[0]
	assert.Equal(t, "1 Dec 2024", entity.Deref(s.StartDate))
	assert.Equal(t, "6 Jan 2025", entity.Deref(s.EndDate))
	assert.Nil(t, s.Rates.RO)
	assert.Equal(t, "210", entity.Deref(s.Rates.BB))
	assert.Equal(t, "250", entity.Deref(s.Rates.HB))
}

func TestParse_TimesInProse(t *testing.T) {
	rec := Parse("Check-in from 2 pm. Check out by 10:30am.")
	assert.Equal(t, "2 pm", entity.Deref(rec.CheckInTime))
	assert.Equal(t, "10:30am", entity.Deref(rec.CheckOutTime))
}

func TestExtractFields_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor(nil).ExtractFields(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}
