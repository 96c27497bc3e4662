package llm

import "strings"

// responseTemplate is the literal JSON shape the model is asked to fill.
const responseTemplate = `{
    "hotel_name": "", "hotel_location": "", "hotel_contact": "",
    "rate_seasons": [{"season": "", "start_date": "", "end_date": "", "rates": {"RO": "", "BB": "", "HB": "", "FB": ""}}],
    "room_categories": [{"type": "", "description": "", "size": ""}],
    "meal_plans": [{"plan": "", "description": "", "rate": ""}],
    "check_in_time": "", "check_out_time": "",
    "child_policy": "", "cancellation_policy": ""
}`

// BuildPrompt embeds the target shape and the full document text in one user message.
func BuildPrompt(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(responseTemplate) + 256)
	b.WriteString("Extract hotel details and return JSON with this structure:\n")
	b.WriteString(responseTemplate)
	b.WriteString("\nReturn ONLY the JSON object. Keep prices exactly as printed, as strings. ")
	b.WriteString("Leave a field out if the document does not mention it.\n")
	b.WriteString("TEXT: ")
	b.WriteString(text)
	return b.String()
}
