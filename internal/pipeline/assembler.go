package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/hotel-rates/constants"
	"github.com/joseph-ayodele/hotel-rates/internal/entity"
)

// Provenance is what the run knows about a record besides its extracted fields.
type Provenance struct {
	Filename        string
	Method          constants.ProcessingMethod
	ValidationScore int
	TextLength      int
}

// Assembler stamps a StructuredRecord with identity, provenance and timestamps.
type Assembler struct {
	Now   func() time.Time
	NewID func() uuid.UUID
}

func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now, NewID: uuid.New}
}

// Assemble never alters the extracted fields; absent stays absent.
func (a *Assembler) Assemble(rec entity.StructuredRecord, p Provenance) entity.HotelRate {
	now := a.Now().UTC()
	return entity.HotelRate{
		ID:                  a.NewID(),
		PDFFilename:         p.Filename,
		StructuredRecord:    rec,
		ProcessingMethod:    p.Method,
		ValidationScore:     p.ValidationScore,
		ExtractedTextLength: p.TextLength,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}
