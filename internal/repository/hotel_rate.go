package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/hotel-rates/constants"
	entschema "github.com/joseph-ayodele/hotel-rates/db/ent/schema"
	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

// HotelRateSink writes one assembled record. Single insert, no upsert.
type HotelRateSink interface {
	Insert(ctx context.Context, table string, rec entity.HotelRate) error
}

// Pinger is implemented by sinks that can check their backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type column struct {
	name string
	typ  field.Type
}

// hotelRateColumns lists the table's columns in schema order.
func hotelRateColumns() []column {
	fields := entschema.HotelRate{}.Fields()
	cols := make([]column, 0, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		cols = append(cols, column{name: d.Name, typ: d.Info.Type})
	}
	return cols
}

// ValidateRecord checks what the table requires before anything is sent.
func ValidateRecord(rec entity.HotelRate) error {
	v := common.NewValidator().
		Field("id", rec.ID, common.UUID).
		Field("pdf_filename", rec.PDFFilename, common.Required, common.MaxLength(1024)).
		Field("processing_method", string(rec.ProcessingMethod),
			common.OneOf(string(constants.MethodNative), string(constants.MethodGPT))).
		Field("validation_score", rec.ValidationScore, common.NonNegative).
		Field("extracted_text_length", rec.ExtractedTextLength, common.NonNegative)
	if rec.CreatedAt.IsZero() {
		v.Field("created_at", nil, common.Required)
	}
	flat := rec.Columns()
	for _, f := range (entschema.HotelRate{}).Fields() {
		d := f.Descriptor()
		v.Field(d.Name, flat[d.Name], schemaValidators(d.Validators)...)
	}
	return v.Err()
}

// schemaValidators adapts the ent field validators on string columns to validation rules.
func schemaValidators(fns []any) []common.ValidationRule {
	rules := make([]common.ValidationRule, 0, len(fns))
	for _, fn := range fns {
		check, ok := fn.(func(string) error)
		if !ok {
			continue
		}
		rules = append(rules, func(fieldName string, value interface{}) *common.ValidationError {
			s, ok := value.(string)
			if !ok {
				return nil
			}
			if err := check(s); err != nil {
				return &common.ValidationError{Field: fieldName, Value: value, Message: err.Error()}
			}
			return nil
		})
	}
	return rules
}

// rowValues flattens rec into column names and driver values. JSON columns are encoded
// to text; absent fields become NULL.
func rowValues(rec entity.HotelRate) ([]string, []any, error) {
	flat := rec.Columns()
	cols := hotelRateColumns()
	names := make([]string, 0, len(cols))
	vals := make([]any, 0, len(cols))
	for _, c := range cols {
		v := flat[c.name]
		if v != nil && c.typ == field.TypeJSON {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, nil, fmt.Errorf("encode %s: %w", c.name, err)
			}
			v = string(b)
		}
		if t, ok := v.(time.Time); ok {
			v = t.UTC()
		}
		names = append(names, c.name)
		vals = append(vals, v)
	}
	return names, vals, nil
}

// SQLSink inserts through ent's SQL builder; works for postgres and sqlite drivers.
type SQLSink struct {
	drv     *entsql.Driver
	timeout time.Duration
	logger  *slog.Logger
}

func NewSQLSink(drv *entsql.Driver, timeout time.Duration, logger *slog.Logger) *SQLSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLSink{drv: drv, timeout: timeout, logger: logger}
}

func (s *SQLSink) Insert(ctx context.Context, table string, rec entity.HotelRate) error {
	if err := ValidateRecord(rec); err != nil {
		return common.PersistenceError("record failed validation", err)
	}
	names, vals, err := rowValues(rec)
	if err != nil {
		return common.PersistenceError("encode record", err)
	}
	q, args := entsql.Dialect(s.drv.Dialect()).Insert(table).Columns(names...).Values(vals...).Query()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	var res sql.Result
	if err := s.drv.Exec(ctx, q, args, &res); err != nil {
		s.logger.Error("repo.insert.error",
			"run_id", common.RunIDFromContext(ctx),
			"table", table,
			"driver", s.drv.Dialect(),
			"error", err,
		)
		return common.PersistenceError(fmt.Sprintf("insert into %s", table), err)
	}
	s.logger.Info("repo.insert.ok",
		"run_id", common.RunIDFromContext(ctx),
		"table", table,
		"id", rec.ID.String(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *SQLSink) Ping(ctx context.Context) error {
	return HealthCheck(ctx, s.drv, s.timeout, s.logger)
}

func (s *SQLSink) Migrate(ctx context.Context, table string) error {
	return Migrate(ctx, s.drv, table, s.logger)
}

// HotelRateTable builds the migration table for name from the ent schema descriptors.
func HotelRateTable(name string) *schema.Table {
	t := schema.NewTable(name)
	for _, f := range (entschema.HotelRate{}).Fields() {
		d := f.Descriptor()
		col := &schema.Column{
			Name:       d.Name,
			Type:       d.Info.Type,
			Nullable:   d.Optional,
			Size:       int64(d.Size),
			SchemaType: d.SchemaType,
		}
		for _, e := range d.Enums {
			col.Enums = append(col.Enums, e.V)
		}
		if d.Name == "id" {
			t.AddPrimary(col)
			continue
		}
		t.AddColumn(col)
	}
	t.AddIndex(strings.ReplaceAll(name, ".", "_")+"_pdf_filename", false, []string{"pdf_filename"})
	return t
}

// Migrate creates (or extends) the hotel rate table.
func Migrate(ctx context.Context, drv *entsql.Driver, table string, logger *slog.Logger) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return common.PersistenceError("prepare migration", err)
	}
	if err := m.Create(ctx, HotelRateTable(table)); err != nil {
		return common.PersistenceError("migrate "+table, err)
	}
	logger.Info("repo.migrate.ok", "table", table, "driver", drv.Dialect())
	return nil
}
