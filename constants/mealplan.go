package constants

import (
	"strings"
)

type MealPlan string

const (
	RoomOnly        MealPlan = "RO"
	BedAndBreakfast MealPlan = "BB"
	HalfBoard       MealPlan = "HB"
	FullBoard       MealPlan = "FB"
	AllInclusive    MealPlan = "AI"
)

// RateBases are the meal-plan columns carried on every season's rates.
var RateBases = []MealPlan{RoomOnly, BedAndBreakfast, HalfBoard, FullBoard}

var allMealPlans = []MealPlan{
	RoomOnly,
	BedAndBreakfast,
	HalfBoard,
	FullBoard,
	AllInclusive,
}

var mealPlanDescriptions = map[MealPlan]string{
	RoomOnly:        "Room Only",
	BedAndBreakfast: "Bed & Breakfast",
	HalfBoard:       "Half Board",
	FullBoard:       "Full Board",
	AllInclusive:    "All Inclusive",
}

// Describe returns the long name for a meal plan code.
func (m MealPlan) Describe() string {
	return mealPlanDescriptions[m]
}

// CanonicalMealPlan maps a code or common spelling ("half board", "B&B") to its code.
func CanonicalMealPlan(input string) (MealPlan, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))
	normalized = strings.Join(strings.Fields(strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(normalized)), " ")

	// synonyms map
	synonyms := map[string]MealPlan{
		"room only":         RoomOnly,
		"ep":                RoomOnly,
		"european plan":     RoomOnly,
		"bed and breakfast": BedAndBreakfast,
		"bed & breakfast":   BedAndBreakfast,
		"b&b":               BedAndBreakfast,
		"b & b":             BedAndBreakfast,
		"cp":                BedAndBreakfast,
		"half board":        HalfBoard,
		"map":               HalfBoard,
		"full board":        FullBoard,
		"ap":                FullBoard,
		"all inclusive":     AllInclusive,
	}

	if mp, ok := synonyms[normalized]; ok {
		return mp, true
	}

	for _, mp := range allMealPlans {
		if normalized == strings.ToLower(string(mp)) {
			return mp, true
		}
	}

	return "", false
}
