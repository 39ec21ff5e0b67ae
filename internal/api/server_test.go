package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/auditlab/invoice-reconciler/internal/api"
	"github.com/auditlab/invoice-reconciler/internal/api/dto"
	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
	"github.com/auditlab/invoice-reconciler/internal/ingest"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := ingest.NewLoader(nil, logger)
	return api.NewServer(api.DefaultConfig(), loader, engine.Options{}, logger)
}

func worksheetUpload(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	rows := [][]string{
		{"Loại sản phẩm", "Mệnh giá", "Số lượng", "Thành tiền"},
		{"Thẻ cào Viettel", "50.000", "10", "500.000"},
		{"Thẻ cào Vina", "100.000", "3", "300.000"},
		{},
		{"Tổng thanh toán", "800.000"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

const invoiceXML = `<HDon>
  <HHDVu><THHDVu>Thẻ cào Viettel</THHDVu><DGia>50000</DGia><SLuong>10</SLuong><ThTien>500000</ThTien></HHDVu>
  <HHDVu><THHDVu>Thẻ cào Vina</THHDVu><DGia>100000</DGia><SLuong>3</SLuong><ThTien>300000</ThTien></HHDVu>
  <TToan><TgTTTBSo>800000</TgTTTBSo></TToan>
</HDon>`

type upload struct {
	field string
	name  string
	data  []byte
}

// multipartBody builds the upload body for the reconcile endpoints.
func multipartBody(t *testing.T, fields map[string]string, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, val := range fields {
		require.NoError(t, mw.WriteField(name, val))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestServer_Reconcile(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, nil,
		upload{"reconciliation_file", "doi_soat.xlsx", worksheetUpload(t)},
		upload{"invoice_file", "hoadon.xml", []byte(invoiceXML)},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp dto.ReconcileResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 2, resp.Summary.TotalItems)
	assert.Equal(t, 2, resp.Summary.MatchedItems)
	assert.True(t, resp.Summary.TotalsMatch)
	for _, row := range resp.Rows {
		assert.Equal(t, recon.StatusMatch, row.Status)
	}
}

func TestServer_Reconcile_InvalidTolerance(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t,
		map[string]string{"vat_tolerance": "1.5"},
		upload{"reconciliation_file", "doi_soat.xlsx", worksheetUpload(t)},
		upload{"invoice_file", "hoadon.xml", []byte(invoiceXML)},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var apiErr dto.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	assert.Equal(t, dto.ErrCodeValidation, apiErr.Code)
}

func TestServer_Reconcile_UnsupportedInvoiceFormat(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, nil,
		upload{"reconciliation_file", "doi_soat.xlsx", worksheetUpload(t)},
		upload{"invoice_file", "hoadon.txt", []byte("plain text")},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_Reconcile_MissingUpload(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, nil,
		upload{"reconciliation_file", "doi_soat.xlsx", worksheetUpload(t)},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ReconcileReport(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, nil,
		upload{"reconciliation_file", "doi_soat.xlsx", worksheetUpload(t)},
		upload{"invoice_file", "hoadon.xml", []byte(invoiceXML)},
	)

	req := httptest.NewRequest(http.MethodPost, "/api/reconcile/report", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	assert.Contains(t, wb.GetSheetList(), "Comparison")
}
