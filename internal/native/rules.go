package native

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

const datePat = `\d{1,2}[./-]\d{1,2}(?:[./-]\d{2,4})?|\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9}\.?(?:\s+\d{4})?|[A-Za-z]{3,9}\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?`

var (
	reColumnGap = regexp.MustCompile(`\s{2,}`)
	reLabel     = regexp.MustCompile(`^[A-Za-z][A-Za-z /&-]{1,30}:`)
	reLetter    = regexp.MustCompile(`[A-Za-z]`)
	reDigitRun  = regexp.MustCompile(`\d{3,}`)

	reLocation = regexp.MustCompile(`(?i)^\s*(?:address|location)\s*[:\-]\s*(.+)$`)
	reContact  = regexp.MustCompile(`(?i)^\s*(?:tel(?:ephone)?|phone|contact|reservations?)\s*[:.]\s*(.+)$`)
	rePhone    = regexp.MustCompile(`\+?\d[\d\s().-]{6,}\d`)
	reEmail    = regexp.MustCompile(`[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)

	timePat    = `(\d{1,2}[:.]\d{2}(?:\s*(?:[ap]\.m\.|[ap]m))?|\d{1,2}\s*(?:[ap]\.m\.|[ap]m)|noon|midday)`
	reCheckIn  = regexp.MustCompile(`(?i)check[\s-]?in(?:\s+time)?\s*(?:[:\-]|is|from)?\s*(?:at\s+|from\s+)?` + timePat)
	reCheckOut = regexp.MustCompile(`(?i)check[\s-]?out(?:\s+time)?\s*(?:[:\-]|is|by|until)?\s*(?:at\s+|by\s+|until\s+)?` + timePat)

	reChildPolicy  = regexp.MustCompile(`(?i)^\s*child(?:ren)?(?:'s)?(?:\s+polic(?:y|ies))?\s*:\s*(.*)$`)
	reCancelPolicy = regexp.MustCompile(`(?i)^\s*cancell?ation(?:\s+polic(?:y|ies)|\s+terms)?\s*:\s*(.*)$`)

	reSeasonRow = regexp.MustCompile(`^\s*(?P<name>[A-Za-z][A-Za-z0-9 '&/()-]*?)\s{2,}(?P<start>` + datePat + `)\s*(?:-|–|to|until)\s*(?P<end>` + datePat + `)(?P<rest>.*)$`)
	reAmount    = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	reRateCol   = regexp.MustCompile(`\b(RO|BB|HB|FB)\b`)

	reRoomHeader = regexp.MustCompile(`(?i)^(?:room|accommodation)s?(?:\s+(?:type|category|categories)s?)?(?:\s{2,}.*)?$`)
	reRoomWord   = regexp.MustCompile(`(?i)\b(room|suite|villa|chalet|studio|cottage|apartment|bungalow|cabin)s?\b`)
	reRoomSize   = regexp.MustCompile(`(?i)^\d+(?:[.,]\d+)?\s*(?:m2|m²|sqm|sq\.?\s*m|sq\.?\s*ft|sqft|ft2)\.?$`)

	reMealCode = regexp.MustCompile(`^(RO|BB|HB|FB|AI)\b[\s\-–:(]*(.*?)\)?$`)
)

// splitColumns cuts a layout line on runs of two or more spaces.
func splitColumns(line string) []string {
	parts := reColumnGap.Split(strings.TrimSpace(line), -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// hotelName is the first line that reads like a title.
func hotelName(lines []string) *string {
	for _, ln := range lines {
		t := collapse(ln)
		if t == "" {
			continue
		}
		if len(t) > 80 || reLabel.MatchString(t) || reDigitRun.MatchString(t) || !reLetter.MatchString(t) {
			continue
		}
		lt := strings.ToLower(t)
		if strings.Contains(lt, "rate") || strings.Contains(lt, "tariff") || strings.Contains(lt, "price") {
			continue
		}
		return entity.Str(t)
	}
	return nil
}

func location(lines []string) *string {
	for _, ln := range lines {
		if m := reLocation.FindStringSubmatch(ln); m != nil {
			cols := splitColumns(m[1])
			if len(cols) > 0 {
				return entity.Str(cols[0])
			}
		}
	}
	return nil
}

func contact(lines []string) *string {
	for _, ln := range lines {
		if m := reContact.FindStringSubmatch(ln); m != nil {
			if v := strings.Join(splitColumns(m[1]), ", "); v != "" {
				return entity.Str(v)
			}
		}
	}
	var found []string
	for _, ln := range lines {
		if p := rePhone.FindString(ln); p != "" && !reSeasonRow.MatchString(ln) && len(found) == 0 {
			found = append(found, strings.TrimSpace(p))
		}
		if e := reEmail.FindString(ln); e != "" {
			found = append(found, e)
			break
		}
	}
	if len(found) == 0 {
		return nil
	}
	return entity.Str(strings.Join(found, ", "))
}

func firstTime(re *regexp.Regexp, text string) *string {
	if m := re.FindStringSubmatch(text); m != nil {
		return entity.Str(collapse(m[1]))
	}
	return nil
}

// policy returns the labelled paragraph: the rest of the label line plus the
// continuation lines up to a blank line or the next label.
func policy(re *regexp.Regexp, lines []string) *string {
	for i, ln := range lines {
		m := re.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		parts := []string{}
		if first := strings.TrimSpace(m[1]); first != "" {
			parts = append(parts, first)
		}
		for _, next := range lines[i+1:] {
			t := strings.TrimSpace(next)
			if t == "" || reLabel.MatchString(t) {
				break
			}
			parts = append(parts, t)
		}
		if len(parts) == 0 {
			return nil
		}
		return entity.Str(collapse(strings.Join(parts, " ")))
	}
	return nil
}

// rateColumns reads RO/BB/HB/FB order from the first header naming two or more of them.
func rateColumns(lines []string) []constants.MealPlan {
	for _, ln := range lines {
		if reSeasonRow.MatchString(ln) {
			continue
		}
		m := reRateCol.FindAllString(ln, -1)
		if len(m) < 2 {
			continue
		}
		out := make([]constants.MealPlan, 0, len(m))
		for _, code := range m {
			out = append(out, constants.MealPlan(code))
		}
		return out
	}
	return constants.RateBases
}

func seasons(lines []string) []entity.RateSeason {
	order := rateColumns(lines)
	var out []entity.RateSeason
	for _, ln := range lines {
		m := reSeasonRow.FindStringSubmatch(ln)
		if m == nil {
			continue
		}
		s := entity.RateSeason{
			Season:    entity.Str(collapse(m[reSeasonRow.SubexpIndex("name")])),
			StartDate: entity.Str(collapse(m[reSeasonRow.SubexpIndex("start")])),
			EndDate:   entity.Str(collapse(m[reSeasonRow.SubexpIndex("end")])),
		}
		amounts := reAmount.FindAllString(m[reSeasonRow.SubexpIndex("rest")], -1)
		var r entity.Rates
		for i, a := range amounts {
			if i >= len(order) {
				break
			}
			r.Set(order[i], a)
		}
		if !r.IsZero() {
			s.Rates = &r
		}
		out = append(out, s)
	}
	return out
}

func rooms(lines []string) []entity.RoomCategory {
	var out []entity.RoomCategory
	inSection := false
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		if t == "" {
			inSection = false
			continue
		}
		if reRoomHeader.MatchString(t) {
			inSection = true
			continue
		}
		if reSeasonRow.MatchString(ln) || reLabel.MatchString(t) {
			continue
		}
		cols := splitColumns(t)
		if len(cols) < 2 {
			continue
		}
		var size *string
		desc := make([]string, 0, len(cols))
		for _, c := range cols[1:] {
			if size == nil && reRoomSize.MatchString(c) {
				size = entity.Str(c)
				continue
			}
			desc = append(desc, c)
		}
		if !reRoomWord.MatchString(cols[0]) || (!inSection && size == nil) {
			continue
		}
		rc := entity.RoomCategory{Type: entity.Str(cols[0]), Size: size}
		if len(desc) > 0 {
			rc.Description = entity.Str(strings.Join(desc, "; "))
		}
		out = append(out, rc)
	}
	return out
}

func mealPlans(lines []string) []entity.MealPlanEntry {
	var out []entity.MealPlanEntry
	seen := map[constants.MealPlan]bool{}
	for _, ln := range lines {
		if reSeasonRow.MatchString(ln) {
			continue
		}
		cols := splitColumns(ln)
		if len(cols) < 2 {
			continue
		}
		plan, label, ok := mealPlanHead(cols[0])
		if !ok || seen[plan] {
			continue
		}
		// a rates header ("RO  BB  HB  FB") is not a plan row
		if len(reRateCol.FindAllString(ln, -1)) >= 2 {
			continue
		}
		seen[plan] = true

		e := entity.MealPlanEntry{Plan: entity.Str(string(plan))}
		rest := cols[1:]
		if last := rest[len(rest)-1]; len(rest) > 1 || reAmount.MatchString(last) {
			e.Rate = entity.Str(last)
			rest = rest[:len(rest)-1]
		}
		switch {
		case len(rest) > 0:
			e.Description = entity.Str(strings.Join(rest, "; "))
		case label != "":
			e.Description = entity.Str(label)
		default:
			e.Description = entity.Str(plan.Describe())
		}
		out = append(out, e)
	}
	return out
}

// mealPlanHead recognises "HB", "HB - Half Board" or "Half Board" as a row head.
func mealPlanHead(col string) (constants.MealPlan, string, bool) {
	if m := reMealCode.FindStringSubmatch(col); m != nil {
		return constants.MealPlan(m[1]), strings.TrimSpace(m[2]), true
	}
	if mp, ok := constants.CanonicalMealPlan(col); ok {
		return mp, col, true
	}
	return "", "", false
}
