package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/hotel-rates/constants"
)

// Keys of a StructuredRecord, in the order every extractor and sink uses them.
const (
	KeyHotelName          = "hotel_name"
	KeyHotelLocation      = "hotel_location"
	KeyHotelContact       = "hotel_contact"
	KeyRateSeasons        = "rate_seasons"
	KeyRoomCategories     = "room_categories"
	KeyMealPlans          = "meal_plans"
	KeyCheckInTime        = "check_in_time"
	KeyCheckOutTime       = "check_out_time"
	KeyChildPolicy        = "child_policy"
	KeyCancellationPolicy = "cancellation_policy"
)

// StructuredKeys is the fixed ten-key shape of a StructuredRecord.
var StructuredKeys = []string{
	KeyHotelName, KeyHotelLocation, KeyHotelContact,
	KeyRateSeasons, KeyRoomCategories, KeyMealPlans,
	KeyCheckInTime, KeyCheckOutTime, KeyChildPolicy, KeyCancellationPolicy,
}

// Rates holds one season's price per rate basis. Values are kept as printed.
type Rates struct {
	RO *string `json:"RO,omitempty"`
	BB *string `json:"BB,omitempty"`
	HB *string `json:"HB,omitempty"`
	FB *string `json:"FB,omitempty"`
}

// Set assigns the price for a rate basis; unknown bases are ignored.
func (r *Rates) Set(basis constants.MealPlan, v string) {
	switch basis {
	case constants.RoomOnly:
		r.RO = &v
	case constants.BedAndBreakfast:
		r.BB = &v
	case constants.HalfBoard:
		r.HB = &v
	case constants.FullBoard:
		r.FB = &v
	}
}

func (r Rates) IsZero() bool {
	return r.RO == nil && r.BB == nil && r.HB == nil && r.FB == nil
}

type RateSeason struct {
	Season    *string `json:"season,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Rates     *Rates  `json:"rates,omitempty"`
}

type RoomCategory struct {
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Size        *string `json:"size,omitempty"`
}

type MealPlanEntry struct {
	Plan        *string `json:"plan,omitempty"`
	Description *string `json:"description,omitempty"`
	Rate        *string `json:"rate,omitempty"`
}

// StructuredRecord is what an extractor produces. A nil field means the value was
// absent from the source, which is distinct from an empty string.
type StructuredRecord struct {
	HotelName          *string         `json:"hotel_name"`
	HotelLocation      *string         `json:"hotel_location"`
	HotelContact       *string         `json:"hotel_contact"`
	RateSeasons        []RateSeason    `json:"rate_seasons"`
	RoomCategories     []RoomCategory  `json:"room_categories"`
	MealPlans          []MealPlanEntry `json:"meal_plans"`
	CheckInTime        *string         `json:"check_in_time"`
	CheckOutTime       *string         `json:"check_out_time"`
	ChildPolicy        *string         `json:"child_policy"`
	CancellationPolicy *string         `json:"cancellation_policy"`
}

// ToMap always returns exactly the ten StructuredKeys; absent fields map to nil.
func (s StructuredRecord) ToMap() map[string]any {
	m := make(map[string]any, len(StructuredKeys))
	m[KeyHotelName] = strOrNil(s.HotelName)
	m[KeyHotelLocation] = strOrNil(s.HotelLocation)
	m[KeyHotelContact] = strOrNil(s.HotelContact)
	m[KeyRateSeasons] = nil
	if s.RateSeasons != nil {
		m[KeyRateSeasons] = s.RateSeasons
	}
	m[KeyRoomCategories] = nil
	if s.RoomCategories != nil {
		m[KeyRoomCategories] = s.RoomCategories
	}
	m[KeyMealPlans] = nil
	if s.MealPlans != nil {
		m[KeyMealPlans] = s.MealPlans
	}
	m[KeyCheckInTime] = strOrNil(s.CheckInTime)
	m[KeyCheckOutTime] = strOrNil(s.CheckOutTime)
	m[KeyChildPolicy] = strOrNil(s.ChildPolicy)
	m[KeyCancellationPolicy] = strOrNil(s.CancellationPolicy)
	return m
}

// Present lists the keys that carry a value, in StructuredKeys order.
func (s StructuredRecord) Present() []string {
	m := s.ToMap()
	out := make([]string, 0, len(StructuredKeys))
	for _, k := range StructuredKeys {
		if m[k] != nil {
			out = append(out, k)
		}
	}
	return out
}

// HotelRate is the persisted row: a StructuredRecord plus provenance and bookkeeping.
// Built once by the assembler and never mutated afterwards.
type HotelRate struct {
	ID          uuid.UUID `json:"id"`
	PDFFilename string    `json:"pdf_filename"`
	StructuredRecord
	ProcessingMethod    constants.ProcessingMethod `json:"processing_method"`
	ValidationScore     int                        `json:"validation_score"`
	ExtractedTextLength int                        `json:"extracted_text_length"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// Columns returns the flat column -> value view of the row.
func (h HotelRate) Columns() map[string]any {
	m := h.StructuredRecord.ToMap()
	m["id"] = h.ID
	m["pdf_filename"] = h.PDFFilename
	m["processing_method"] = string(h.ProcessingMethod)
	m["validation_score"] = h.ValidationScore
	m["extracted_text_length"] = h.ExtractedTextLength
	m["created_at"] = h.CreatedAt
	m["updated_at"] = h.UpdatedAt
	return m
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
