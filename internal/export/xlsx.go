package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
	"github.com/joseph-ayodele/hotel-rates/internal/repository"
)

const (
	SheetSummary   = "Summary"
	SheetSeasons   = "Seasons"
	SheetRooms     = "Rooms"
	SheetMealPlans = "MealPlans"
)

// XLSXSink writes each record to its own workbook under dir.
type XLSXSink struct {
	dir    string
	logger *slog.Logger
}

func NewXLSXSink(dir string, logger *slog.Logger) *XLSXSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXSink{dir: dir, logger: logger}
}

// Path returns where rec lands for table.
func (s *XLSXSink) Path(table string, rec entity.HotelRate) string {
	stem := strings.TrimSuffix(rec.PDFFilename, filepath.Ext(rec.PDFFilename))
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.xlsx", table, stem, rec.ID.String()[:8]))
}

// Insert renders the workbook in memory and renames it into place, so a failed
// write never leaves a partial file behind.
func (s *XLSXSink) Insert(ctx context.Context, table string, rec entity.HotelRate) error {
	start := time.Now()
	if err := repository.ValidateRecord(rec); err != nil {
		return common.PersistenceError("record failed validation", err)
	}
	if err := ctx.Err(); err != nil {
		return common.PersistenceError("xlsx write cancelled", err)
	}
	b, err := BuildWorkbook(rec)
	if err != nil {
		return common.PersistenceError("build workbook", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return common.PersistenceError("create output dir", err)
	}

	dst := s.Path(table, rec)
	tmp, err := os.CreateTemp(s.dir, ".hr-*.xlsx")
	if err != nil {
		return common.PersistenceError("create temp file", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return common.PersistenceError("write workbook", err)
	}
	if err := tmp.Close(); err != nil {
		return common.PersistenceError("close workbook", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return common.PersistenceError("move workbook into place", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", common.RunIDFromContext(ctx),
		"path", dst,
		"seasons", len(rec.RateSeasons),
		"rooms", len(rec.RoomCategories),
		"meal_plans", len(rec.MealPlans),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Ping checks the output directory can be created.
func (s *XLSXSink) Ping(context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return common.PersistenceError("create output dir", err)
	}
	return nil
}

// BuildWorkbook lays out one record over four sheets and returns the XLSX bytes.
func BuildWorkbook(rec entity.HotelRate) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetSeasons, SheetRooms, SheetMealPlans} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}

	summary := [][]any{
		{"Field", "Value"},
		{"id", rec.ID.String()},
		{"pdf_filename", rec.PDFFilename},
		{entity.KeyHotelName, entity.Deref(rec.HotelName)},
		{entity.KeyHotelLocation, entity.Deref(rec.HotelLocation)},
		{entity.KeyHotelContact, entity.Deref(rec.HotelContact)},
		{entity.KeyCheckInTime, entity.Deref(rec.CheckInTime)},
		{entity.KeyCheckOutTime, entity.Deref(rec.CheckOutTime)},
		{entity.KeyChildPolicy, entity.Deref(rec.ChildPolicy)},
		{entity.KeyCancellationPolicy, entity.Deref(rec.CancellationPolicy)},
		{"processing_method", string(rec.ProcessingMethod)},
		{"validation_score", rec.ValidationScore},
		{"extracted_text_length", rec.ExtractedTextLength},
		{"created_at", rec.CreatedAt.UTC().Format(time.RFC3339Nano)},
		{"updated_at", rec.UpdatedAt.UTC().Format(time.RFC3339Nano)},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return nil, err
	}

	seasons := [][]any{{"Season", "Start", "End", "RO", "BB", "HB", "FB"}}
	for _, rs := range rec.RateSeasons {
		r := entity.Rates{}
		if rs.Rates != nil {
			r = *rs.Rates
		}
		seasons = append(seasons, []any{
			entity.Deref(rs.Season), entity.Deref(rs.StartDate), entity.Deref(rs.EndDate),
			entity.Deref(r.RO), entity.Deref(r.BB), entity.Deref(r.HB), entity.Deref(r.FB),
		})
	}
	if err := writeRows(f, SheetSeasons, seasons); err != nil {
		return nil, err
	}

	rooms := [][]any{{"Type", "Description", "Size"}}
	for _, rc := range rec.RoomCategories {
		rooms = append(rooms, []any{entity.Deref(rc.Type), entity.Deref(rc.Description), entity.Deref(rc.Size)})
	}
	if err := writeRows(f, SheetRooms, rooms); err != nil {
		return nil, err
	}

	plans := [][]any{{"Plan", "Description", "Rate"}}
	for _, mp := range rec.MealPlans {
		plans = append(plans, []any{entity.Deref(mp.Plan), entity.Deref(mp.Description), entity.Deref(mp.Rate)})
	}
	if err := writeRows(f, SheetMealPlans, plans); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 24)
	_ = f.SetColWidth(SheetSummary, "B", "B", 64)
	_ = f.SetColWidth(SheetSeasons, "A", "C", 16)
	_ = f.SetColWidth(SheetRooms, "A", "B", 28)
	_ = f.SetColWidth(SheetMealPlans, "B", "B", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
