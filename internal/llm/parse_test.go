package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Seaview Resort\nRoom Only 120")
	assert.True(t, strings.HasPrefix(p, "Extract hotel details and return JSON with this structure:\n"))
	assert.Contains(t, p, `"rates": {"RO": "", "BB": "", "HB": "", "FB": ""}`)
	assert.True(t, strings.HasSuffix(p, "TEXT: Seaview Resort\nRoom Only 120"))
}

func TestParseResponse_FencedWithCoercion(t *testing.T) {
	content := "```json\n" + `{
		"hotel_name": "Seaview Resort",
		"hotel_location": null,
		"hotel_contact": "",
		"rate_seasons": [
			{"season": "High", "start_date": "2024-12-15", "end_date": "2025-01-10",
			 "rates": {"RO": 120, "bed and breakfast": "150", "HB": "N/A"}}
		],
		"room_categories": [],
		"meal_plans": {"plan": "Half Board", "rate": 35},
		"check_in_time": "14:00",
		"star_rating": 5
	}` + "\n```"

	rec, cleaned, err := ParseResponse(content, nil)
	require.NoError(t, err)
	require.NotEmpty(t, cleaned)

	assert.Equal(t, "Seaview Resort", entity.Deref(rec.HotelName))
	assert.Nil(t, rec.HotelLocation)
	assert.Nil(t, rec.HotelContact)
	assert.Equal(t, "14:00", entity.Deref(rec.CheckInTime))
	assert.Nil(t, rec.RoomCategories, "empty list reads as absent")

	require.Len(t, rec.RateSeasons, 1)
	r := rec.RateSeasons[0].Rates
	require.NotNil(t, r)
	assert.Equal(t, "120", entity.Deref(r.RO))
	assert.Equal(t, "150", entity.Deref(r.BB))
	assert.Nil(t, r.HB)
	assert.Nil(t, r.FB)

	require.Len(t, rec.MealPlans, 1)
	assert.Equal(t, "Half Board", entity.Deref(rec.MealPlans[0].Plan))
	assert.Equal(t, "35", entity.Deref(rec.MealPlans[0].Rate))

	assert.NotContains(t, string(cleaned), "star_rating")
}

func TestParseResponse_ProseAroundObject(t *testing.T) {
	rec, _, err := ParseResponse(`Here you go: {"hotel_name": "Palm Inn"} Hope that helps.`, nil)
	require.NoError(t, err)
	assert.Equal(t, "Palm Inn", entity.Deref(rec.HotelName))
}

func TestParseResponse_Rejects(t *testing.T) {
	for name, content := range map[string]string{
		"empty":     "   ",
		"not json":  "not json",
		"array":     `[{"hotel_name": "x"}]`,
		"truncated": `{"hotel_name": "x"`,
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseResponse(content, nil)
			require.Error(t, err)
		})
	}
}

func TestParseResponse_WrongTypedScalarDropped(t *testing.T) {
	rec, _, err := ParseResponse(`{"hotel_name": {"en": "x"}, "check_out_time": "11:00"}`, nil)
	require.NoError(t, err)
	assert.Nil(t, rec.HotelName)
	assert.Equal(t, "11:00", entity.Deref(rec.CheckOutTime))
}

func TestValidateHotelRateJSON(t *testing.T) {
	require.NoError(t, ValidateHotelRateJSON([]byte(`{"hotel_name":"x","rate_seasons":[{"rates":{"RO":"1"}}]}`)))
	require.Error(t, ValidateHotelRateJSON([]byte(`{"hotel_name":""}`)))
	require.Error(t, ValidateHotelRateJSON([]byte(`{"rate_seasons":[{"rates":{"AI":"1"}}]}`)))
	require.Error(t, ValidateHotelRateJSON([]byte(`{"stars":"5"}`)))
}
