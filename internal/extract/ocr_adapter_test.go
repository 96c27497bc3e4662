package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/internal/common"
	"github.com/joseph-ayodele/hotel-rates/internal/ocr"
)

func TestOCRAdapter_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palm.txt")
	require.NoError(t, os.WriteFile(path, []byte("Palm Inn\r\nRoom Only\t90\n"), 0o600))

	a := NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil), nil)
	res, err := a.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "palm.txt", res.Filename)
	assert.Equal(t, "Palm Inn\nRoom Only  90", res.Text)
}

func TestOCRAdapter_FailuresAreExtractionIO(t *testing.T) {
	a := NewOCRAdapter(ocr.NewExtractor(ocr.Config{}, nil), nil)

	_, err := a.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	require.ErrorIs(t, err, common.ErrExtractionIO)
	assert.False(t, common.IsRetryable(err))

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n\n"), 0o600))
	_, err = a.Extract(context.Background(), empty)
	require.ErrorIs(t, err, common.ErrExtractionIO)
	assert.ErrorIs(t, err, ocr.ErrEmptyText)
}
