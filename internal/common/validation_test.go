package common

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_CollectsAllFailures(t *testing.T) {
	v := NewValidator().
		Field("id", uuid.Nil, UUID).
		Field("pdf_filename", "  ", Required, MaxLength(10)).
		Field("validation_score", -20, NonNegative).
		Field("processing_method", "ocr", OneOf("native", "gpt"))

	require.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 4)

	err := v.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	msg := err.Error()
	assert.Contains(t, msg, "must not be the nil UUID")
	assert.Contains(t, msg, "'pdf_filename'")
	assert.Contains(t, msg, "must be >= 0")
	assert.Contains(t, msg, "must be one of native, gpt")
}

func TestValidator_Passes(t *testing.T) {
	v := NewValidator().
		Field("id", uuid.New(), UUID).
		Field("id_str", "0b9f7c1e-0000-4000-8000-000000000001", UUID).
		Field("pdf_filename", "rates.pdf", Required, MaxLength(1024)).
		Field("text_length", 0, NonNegative).
		Field("processing_method", "gpt", OneOf("native", "gpt"))

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
	assert.Empty(t, v.ErrorMessage())
}

func TestMaxLength_CountsRunes(t *testing.T) {
	rule := MaxLength(4)
	assert.Nil(t, rule("name", "ÉÉÉÉ"))
	assert.NotNil(t, rule("name", strings.Repeat("é", 5)))
	s := "abcde"
	assert.NotNil(t, rule("name", &s))
	assert.Nil(t, rule("name", 12345))
}

func TestRequired_Pointers(t *testing.T) {
	var nilStr *string
	blank := " "
	set := "x"
	assert.NotNil(t, Required("f", nil))
	assert.NotNil(t, Required("f", nilStr))
	assert.NotNil(t, Required("f", &blank))
	assert.Nil(t, Required("f", &set))
}
