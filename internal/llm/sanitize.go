package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

var reFence = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\s*```$")

var stringKeys = []string{
	entity.KeyHotelName, entity.KeyHotelLocation, entity.KeyHotelContact,
	entity.KeyCheckInTime, entity.KeyCheckOutTime,
	entity.KeyChildPolicy, entity.KeyCancellationPolicy,
}

var (
	seasonKeys = []string{"season", "start_date", "end_date"}
	roomKeys   = []string{"type", "description", "size"}
	mealKeys   = []string{"plan", "description", "rate"}
)

// ExtractJSONObject trims the model content, strips a markdown fence, and falls back to
// the outermost {...} span when the object is wrapped in prose.
func ExtractJSONObject(content string) ([]byte, error) {
	s := strings.TrimSpace(content)
	if m := reFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	if s == "" {
		return nil, fmt.Errorf("empty response content")
	}
	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	i, j := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if i >= 0 && j > i && json.Valid([]byte(s[i:j+1])) {
		return []byte(s[i : j+1]), nil
	}
	return nil, fmt.Errorf("response is not valid JSON")
}

// NormalizeAndSanitizeJSON
// - Drops null / empty values so they read as absent
// - Coerces numbers to strings (prices are kept as printed)
// - Renames rate keys to their RO/BB/HB/FB code
// - Removes unknown keys and list items that end up empty
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var top any
	if err := dec.Decode(&top); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	m, ok := top.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("sanitize: top-level JSON is %s, want object", jsonKind(top))
	}

	s := &sanitizer{}
	out := make(map[string]any, len(entity.StructuredKeys))
	for _, k := range stringKeys {
		if v, ok := s.scalar(k, m[k]); ok {
			out[k] = v
		}
	}
	if v := s.list(entity.KeyRateSeasons, m[entity.KeyRateSeasons], s.season); v != nil {
		out[entity.KeyRateSeasons] = v
	}
	if v := s.list(entity.KeyRoomCategories, m[entity.KeyRoomCategories], s.flat(roomKeys)); v != nil {
		out[entity.KeyRoomCategories] = v
	}
	if v := s.list(entity.KeyMealPlans, m[entity.KeyMealPlans], s.flat(mealKeys)); v != nil {
		out[entity.KeyMealPlans] = v
	}

	known := map[string]struct{}{}
	for _, k := range entity.StructuredKeys {
		known[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := known[k]; !ok {
			s.drop(k + "(unknown)")
		}
	}

	b, err := json.Marshal(out)
	if err != nil {
		return nil, s.dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(s.dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", s.dropped)
	}
	return b, s.dropped, nil
}

type sanitizer struct {
	dropped []string
}

func (s *sanitizer) drop(what string) { s.dropped = append(s.dropped, what) }

// scalar returns the trimmed string form of v; false means absent.
func (s *sanitizer) scalar(key string, v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		t = strings.TrimSpace(t)
		if t == "" || strings.EqualFold(t, "null") || strings.EqualFold(t, "n/a") {
			return "", false
		}
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		s.drop(key + "(type)")
		return "", false
	}
}

// list sanitizes each item with fn; a list with no surviving items is absent.
func (s *sanitizer) list(key string, v any, fn func(prefix string, item map[string]any) map[string]any) []map[string]any {
	if v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		if obj, isObj := v.(map[string]any); isObj {
			arr = []any{obj}
		} else {
			s.drop(key + "(type)")
			return nil
		}
	}
	var out []map[string]any
	for i, it := range arr {
		obj, ok := it.(map[string]any)
		if !ok {
			s.drop(fmt.Sprintf("%s[%d](type)", key, i))
			continue
		}
		if clean := fn(fmt.Sprintf("%s[%d].", key, i), obj); len(clean) > 0 {
			out = append(out, clean)
		}
	}
	return out
}

func (s *sanitizer) flat(keys []string) func(string, map[string]any) map[string]any {
	return func(prefix string, item map[string]any) map[string]any {
		out := map[string]any{}
		for _, k := range keys {
			if v, ok := s.scalar(prefix+k, item[k]); ok {
				out[k] = v
			}
		}
		for k := range item {
			if !contains(keys, k) {
				s.drop(prefix + k + "(unknown)")
			}
		}
		return out
	}
}

func (s *sanitizer) season(prefix string, item map[string]any) map[string]any {
	out := map[string]any{}
	for _, k := range seasonKeys {
		if v, ok := s.scalar(prefix+k, item[k]); ok {
			out[k] = v
		}
	}
	if raw, ok := item["rates"]; ok && raw != nil {
		rates, isObj := raw.(map[string]any)
		if !isObj {
			s.drop(prefix + "rates(type)")
		} else if r := s.rates(prefix+"rates.", rates); len(r) > 0 {
			out["rates"] = r
		}
	}
	for k := range item {
		if k != "rates" && !contains(seasonKeys, k) {
			s.drop(prefix + k + "(unknown)")
		}
	}
	return out
}

func (s *sanitizer) rates(prefix string, in map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range in {
		code, ok := constants.CanonicalMealPlan(k)
		if !ok || !isRateBasis(code) {
			s.drop(prefix + k + "(unknown)")
			continue
		}
		if _, exists := out[string(code)]; exists {
			continue
		}
		if val, ok := s.scalar(prefix+k, v); ok {
			out[string(code)] = val
		}
	}
	return out
}

func isRateBasis(mp constants.MealPlan) bool {
	for _, b := range constants.RateBases {
		if b == mp {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	}
	return "object"
}
