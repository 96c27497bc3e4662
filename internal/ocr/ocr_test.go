package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hotel-rates/constants"
)

type call struct {
	name string
	args []string
}

type stubRunner struct {
	calls   []call
	outputs map[string][]byte
	errs    map[string]error
	// onRun lets a test create files the real binary would have written.
	onRun func(name string, args []string)
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, call{name: name, args: args})
	if s.onRun != nil {
		s.onRun(name, args)
	}
	if err := s.errs[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return s.outputs[name], nil, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestExtract_PDFTextLayer(t *testing.T) {
	pdf := writeFile(t, "sheet.pdf", "%PDF-1.4")
	r := &stubRunner{outputs: map[string][]byte{
		"pdftotext": []byte("Seaview Resort\r\nSeason  01/05 - 30/09  120\f\nPage two\n"),
	}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	res, err := e.Extract(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Contains(t, res.Text, "Season  01/05 - 30/09  120", "column spacing is kept")
	assert.NotContains(t, res.Text, "\r")

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", pdf, "-"}, r.calls[0].args)
}

func TestExtract_EmptyTextLayerWithoutFallback(t *testing.T) {
	pdf := writeFile(t, "scan.pdf", "%PDF-1.4")
	r := &stubRunner{outputs: map[string][]byte{"pdftotext": []byte("  \f\n")}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	_, err := e.Extract(context.Background(), pdf)
	require.ErrorIs(t, err, ErrEmptyText)
	assert.Len(t, r.calls, 1, "no OCR attempted")
}

func TestExtract_EmptyTextLayerFallsBackToOCR(t *testing.T) {
	pdf := writeFile(t, "scan.pdf", "%PDF-1.4")
	r := &stubRunner{outputs: map[string][]byte{
		"pdftotext": []byte(""),
		"tesseract": []byte("Room Rates 2024\n-----\nDeluxe  120"),
	}}
	r.onRun = func(name string, args []string) {
		if name != "pdftoppm" {
			return
		}
		prefix := args[len(args)-1]
		for _, n := range []string{"-1.png", "-2.png"} {
			_ = os.WriteFile(prefix+n, []byte("png"), 0o644)
		}
	}
	e := NewExtractorWithRunner(Config{OCRFallback: true}, r, nil)

	res, err := e.Extract(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, strings.Count(res.Text, "Deluxe  120"))
	assert.NotContains(t, res.Text, "-----")
}

func TestExtract_CommandFailure(t *testing.T) {
	pdf := writeFile(t, "bad.pdf", "junk")
	r := &stubRunner{errs: map[string]error{"pdftotext": errors.New("exit status 1")}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	res, err := e.Extract(context.Background(), pdf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext")
	assert.Equal(t, []string{"boom"}, res.Warnings)
}

func TestExtract_PlainText(t *testing.T) {
	p := writeFile(t, "sheet.txt", "Hotel\tRates\n\n\n\nCheck-in 14:00\n")
	e := NewExtractorWithRunner(Config{}, &stubRunner{}, nil)

	res, err := e.Extract(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "plain-text", res.Method)
	assert.Equal(t, "Hotel  Rates\n\nCheck-in 14:00", res.Text)
}

func TestExtract_MissingAndUnsupported(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{}, nil)

	_, err := e.Extract(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	require.ErrorIs(t, err, os.ErrNotExist)

	doc := writeFile(t, "sheet.docx", "x")
	_, err = e.Extract(context.Background(), doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "a  b\n\nc", Normalize("a\tb   \r\n\r\n\r\n\r\nc\n"))
}
