package bundle_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/bundle"
)

type textPart struct {
	format, body string
	err          error
}

func (p textPart) Format() string { return p.format }

func (p textPart) Render(_ context.Context, w io.Writer, _ *entity.BatchReport) error {
	if p.err != nil {
		return p.err
	}
	_, err := io.WriteString(w, p.body)
	return err
}

func TestZipRenderer_UnaEntradaPorFormato(t *testing.T) {
	r := bundle.NewZipRenderer(textPart{format: "json", body: "{}"}, textPart{format: "xml", body: "<report/>"})
	assert.Equal(t, "zip", r.Format())
	assert.Equal(t, "application/zip", r.ContentType())

	var buf bytes.Buffer
	require.NoError(t, r.Render(context.Background(), &buf, &entity.BatchReport{ReportID: "abc-123"}))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "invoice-qc-abc-123.json", zr.File[0].Name)
	assert.Equal(t, "invoice-qc-abc-123.xml", zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	defer f.Close()
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "<report/>", string(body))
}

func TestZipRenderer_PropagaError(t *testing.T) {
	r := bundle.NewZipRenderer(textPart{format: "pdf", err: errors.New("fallo")})
	err := r.Render(context.Background(), io.Discard, &entity.BatchReport{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice-qc.pdf")
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "invoice-qc", bundle.BaseName(&entity.BatchReport{}))
	assert.Equal(t, "invoice-qc-ab12", bundle.BaseName(&entity.BatchReport{ReportID: "a/b 1.2"}))
}
