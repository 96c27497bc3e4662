package llm

import "github.com/joseph-ayodele/hotel-rates/internal/entity"

// BuildHotelRateJSONSchema returns the JSON-Schema (draft 2020-12 subset) a sanitized
// model response must satisfy. Every field is optional; unknown keys are rejected.
func BuildHotelRateJSONSchema() map[string]any {
	props := map[string]any{
		entity.KeyHotelName:          stringProp(),
		entity.KeyHotelLocation:      stringProp(),
		entity.KeyHotelContact:       stringProp(),
		entity.KeyCheckInTime:        stringProp(),
		entity.KeyCheckOutTime:       stringProp(),
		entity.KeyChildPolicy:        stringProp(),
		entity.KeyCancellationPolicy: stringProp(),
		entity.KeyRateSeasons: arrayOf(objectOf(map[string]any{
			"season":     stringProp(),
			"start_date": stringProp(),
			"end_date":   stringProp(),
			"rates": objectOf(map[string]any{
				"RO": stringProp(),
				"BB": stringProp(),
				"HB": stringProp(),
				"FB": stringProp(),
			}),
		})),
		entity.KeyRoomCategories: arrayOf(objectOf(map[string]any{
			"type":        stringProp(),
			"description": stringProp(),
			"size":        stringProp(),
		})),
		entity.KeyMealPlans: arrayOf(objectOf(map[string]any{
			"plan":        stringProp(),
			"description": stringProp(),
			"rate":        stringProp(),
		})),
	}
	return objectOf(props)
}

func stringProp() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func objectOf(props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}
