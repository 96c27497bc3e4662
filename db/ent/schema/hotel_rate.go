package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/db/ent/schema/utils"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

// HotelRate is one extracted rate sheet, stored flat in hotels_rate_data.
type HotelRate struct{ ent.Schema }

func (HotelRate) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: constants.DefaultTable},
	}
}

func (HotelRate) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		field.String("pdf_filename").
			NotEmpty().
			MaxLen(1024).
			Validate(utils.ExtensionValidator(constants.AllowedExtensions)).
			Immutable(),
		field.String("hotel_name").Optional().Nillable(),
		field.String("hotel_location").Optional().Nillable(),
		field.String("hotel_contact").Optional().Nillable(),
		field.JSON("rate_seasons", []entity.RateSeason{}).Optional(),
		field.JSON("room_categories", []entity.RoomCategory{}).Optional(),
		field.JSON("meal_plans", []entity.MealPlanEntry{}).Optional(),
		field.String("check_in_time").Optional().Nillable(),
		field.String("check_out_time").Optional().Nillable(),
		field.Text("child_policy").Optional().Nillable(),
		field.Text("cancellation_policy").Optional().Nillable(),
		field.Enum("processing_method").
			Values(string(constants.MethodNative), string(constants.MethodGPT)).
			Immutable(),
		field.Int("validation_score").NonNegative().Immutable(),
		field.Int("extracted_text_length").NonNegative().Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable().
			SchemaType(map[string]string{dialect.Postgres: "timestamptz"}),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now).
			SchemaType(map[string]string{dialect.Postgres: "timestamptz"}),
	}
}

func (HotelRate) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("pdf_filename"),
	}
}
