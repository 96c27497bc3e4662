package native

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
	"github.com/joseph-ayodele/hotel-rates/internal/extract"
)

// Extractor reads a well-structured rate sheet with line rules. It makes no network
// calls, and fields it cannot find stay absent.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

func (e *Extractor) Method() constants.ProcessingMethod { return constants.MethodNative }

func (e *Extractor) ExtractFields(ctx context.Context, text string) (extract.FieldsResult, error) {
	if err := ctx.Err(); err != nil {
		return extract.FieldsResult{}, err
	}
	start := time.Now()
	rec := Parse(text)
	e.logger.Info("native.extract.ok",
		"present", rec.Present(),
		"seasons", len(rec.RateSeasons),
		"rooms", len(rec.RoomCategories),
		"meal_plans", len(rec.MealPlans),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extract.FieldsResult{Record: rec}, nil
}

// Parse applies every field rule to text.
func Parse(text string) entity.StructuredRecord {
	lines := strings.Split(strings.ReplaceAll(text, "\f", "\n"), "\n")
	return entity.StructuredRecord{
		HotelName:          hotelName(lines),
		HotelLocation:      location(lines),
		HotelContact:       contact(lines),
		RateSeasons:        seasons(lines),
		RoomCategories:     rooms(lines),
		MealPlans:          mealPlans(lines),
		CheckInTime:        firstTime(reCheckIn, text),
		CheckOutTime:       firstTime(reCheckOut, text),
		ChildPolicy:        policy(reChildPolicy, lines),
		CancellationPolicy: policy(reCancelPolicy, lines),
	}
}
