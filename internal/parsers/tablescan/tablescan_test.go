package tablescan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

func TestFindHeaderRows(t *testing.T) {
	rows := [][]string{
		{"BẢNG ĐỐI SOÁT THÁNG 07"},
		{},
		{"Loại sản phẩm", "Mệnh giá", "Số lượng", "Thành tiền"},
		{"Thẻ cào Viettel", "50.000", "10", "500.000"},
		{},
		{"Tên sản phẩm", "Số lượng", "Thành tiền"},
		{"Thẻ cào Mobifone", "5", "250.000"},
	}

	assert.Equal(t, []int{2, 5}, FindHeaderRows(rows))
}

func TestMapColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnMap
	}{
		{
			name:   "full vietnamese header",
			header: []string{"Loại sản phẩm", "Mệnh giá", "Số lượng", "Thành tiền", "Chiết khấu"},
			want:   ColumnMap{Product: 0, Denomination: 1, Quantity: 2, Amount: 3, Discount: 4},
		},
		{
			name:   "english header",
			header: []string{"Product name", "Denomination", "Quantity", "Amount"},
			want:   ColumnMap{Product: 0, Denomination: 1, Quantity: 2, Amount: 3, Discount: -1},
		},
		{
			name:   "grand total column is not the amount column",
			header: []string{"Tên", "Thành tiền", "Tổng cộng"},
			want:   ColumnMap{Product: 0, Denomination: -1, Quantity: -1, Amount: 1, Discount: -1},
		},
		{
			name:   "no product column",
			header: []string{"Số lượng", "Thành tiền"},
			want:   ColumnMap{Product: -1, Denomination: -1, Quantity: 0, Amount: 1, Discount: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapColumns(tt.header)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Product >= 0, got.Found())
		})
	}
}

func TestExtractSection(t *testing.T) {
	rows := [][]string{
		{"Loại sản phẩm", "Mệnh giá", "Số lượng", "Thành tiền"},
		{"Thẻ cào Viettel", "50.000", "10", "500.000"},
		{"", "100.000", "2", "200.000"}, // nameless row skipped, section continues
		{"Thẻ cào Vina", "20.000", "5", "100.000"},
		{"Tổng cộng", "", "", "800.000"}, // summary row ends the section
		{"Thẻ cào Mobifone", "10.000", "1", "10.000"},
	}

	items := ExtractSection(rows, 0)

	require.Len(t, items, 2)
	assert.Equal(t, "Thẻ cào Viettel", items[0].ProductType)
	assert.Equal(t, "50.000", items[0].Denomination)
	assert.Equal(t, "10", items[0].Quantity)
	assert.Equal(t, "500.000", items[0].Amount)
	assert.Equal(t, "Thẻ cào Vina", items[1].ProductType)
}

func TestExtractSection_StopsAtNextHeader(t *testing.T) {
	rows := [][]string{
		{"Loại sản phẩm", "Số lượng", "Thành tiền"},
		{"Thẻ A", "1", "50.000"},
		{"Loại sản phẩm", "Số lượng", "Thành tiền"},
		{"Thẻ B", "2", "100.000"},
	}

	assert.Len(t, ExtractSection(rows, 0), 1)
	assert.Len(t, ExtractSection(rows, 2), 1)
}

func TestExtractTotals(t *testing.T) {
	rows := [][]string{
		{"Tổng trước thuế", "1.000.000"},
		{"Thuế suất", "10%"},
		{"Tiền thuế", "100.000"},
		{"Tổng thanh toán: 1.100.000"},
	}

	totals := ExtractTotals(rows)

	require.Len(t, totals, 4)
	assert.Equal(t, 1000000.0, totals[recon.TotalBeforeTax])
	assert.Equal(t, 10.0, totals[recon.TotalVATRate])
	assert.Equal(t, 100000.0, totals[recon.TotalVATAmount])
	assert.Equal(t, 1100000.0, totals[recon.TotalPayment])
}

func TestExtractTotals_FirstMatchWins(t *testing.T) {
	rows := [][]string{
		{"Tổng thanh toán", "500.000"},
		{"Tổng thanh toán", "999.000"},
	}

	totals := ExtractTotals(rows)
	assert.Equal(t, 500000.0, totals[recon.TotalPayment])
}

func TestExtractTotals_StatedZeroIsPresent(t *testing.T) {
	rows := [][]string{
		{"Tổng trước thuế", "500.000"},
		{"Thuế suất", "0%"},
		{"Tiền thuế", "0"},
		{"Tổng thanh toán", "500.000"},
	}

	totals := ExtractTotals(rows)

	require.Len(t, totals, 4)
	v, ok := totals[recon.TotalVATAmount]
	require.True(t, ok, "stated zero VAT amount must be present")
	assert.Equal(t, 0.0, v)
	r, ok := totals[recon.TotalVATRate]
	require.True(t, ok, "stated zero VAT rate must be present")
	assert.Equal(t, 0.0, r)
}

func TestExtractTotals_NegativeAmount(t *testing.T) {
	rows := [][]string{
		{"Tiền thuế", "-50.000"},
	}

	totals := ExtractTotals(rows)

	v, ok := totals[recon.TotalVATAmount]
	require.True(t, ok)
	assert.Equal(t, -50000.0, v)
}

func TestExtractTotals_LabelOnlyRowStaysAbsent(t *testing.T) {
	rows := [][]string{
		{"Tiền thuế", "xem phụ lục"},
	}

	totals := ExtractTotals(rows)

	_, ok := totals[recon.TotalVATAmount]
	assert.False(t, ok)
}

func TestExtractTotals_VATRateMustLookLikePercentage(t *testing.T) {
	rows := [][]string{
		{"Thuế suất", "1.000.000"},
	}

	totals := ExtractTotals(rows)
	_, ok := totals[recon.TotalVATRate]
	assert.False(t, ok)
}

func TestScan_FullDocument(t *testing.T) {
	rows := [][]string{
		{"HÓA ĐƠN GTGT"},
		{},
		{"Loại sản phẩm", "Mệnh giá", "Số lượng", "Thành tiền"},
		{"Thẻ cào Viettel", "50.000", "10", "500.000"},
		{"Thẻ cào Vina", "100.000", "3", "300.000"},
		{},
		{"Tổng trước thuế", "800.000"},
		{"Thuế suất", "10%"},
		{"Tổng thanh toán", "880.000"},
	}

	items, totals := Scan(rows)

	require.Len(t, items, 2)
	assert.Equal(t, "Thẻ cào Viettel", items[0].ProductType)
	assert.Equal(t, 800000.0, totals[recon.TotalBeforeTax])
	assert.Equal(t, 10.0, totals[recon.TotalVATRate])
	assert.Equal(t, 880000.0, totals[recon.TotalPayment])
}

func TestIsEmptyRow(t *testing.T) {
	assert.True(t, IsEmptyRow(nil))
	assert.True(t, IsEmptyRow([]string{"", "  ", ""}))
	assert.True(t, IsEmptyRow([]string{"ghi chú"}))
	assert.False(t, IsEmptyRow([]string{"Thẻ A", "50.000"}))
}
