package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/auditlab/invoice-reconciler/internal/domain/engine"
	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
	"github.com/auditlab/invoice-reconciler/internal/domain/totals"
)

func sampleResult() *engine.Result {
	left := &recon.CanonicalLineItem{
		ProductType: "Thẻ cào Viettel", Quantity: 10, Amount: 500000,
		Origin: recon.OriginReconciliation,
	}
	right := &recon.CanonicalLineItem{
		ProductType: "Thẻ cào Viettel", Quantity: 10, Amount: 500000,
		Origin: recon.OriginInvoice,
	}
	missing := &recon.CanonicalLineItem{
		ProductType: "Thẻ cào Vina", Quantity: 2, Amount: 200000,
		Origin: recon.OriginReconciliation,
	}

	tc := totals.Reconcile(
		recon.Totals{recon.TotalPayment: 700000},
		recon.Totals{recon.TotalPayment: 700000},
		0, 0,
	)

	return &engine.Result{
		Rows: []recon.ComparisonRow{
			{Left: left, Right: right, Status: recon.StatusMatch},
			{Left: missing, Status: recon.StatusMissingInInvoice},
		},
		Totals: tc,
		Summary: recon.Summary{
			TotalItems: 2, MatchedItems: 1, MismatchedItems: 1, TotalsMatch: true,
		},
		Diagnostics: engine.Diagnostics{ReconciliationDropped: 1},
	}
}

func TestGenerate_WorkbookRoundTrip(t *testing.T) {
	f, err := Generate(sampleResult())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	re, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = re.Close() }()

	assert.ElementsMatch(t, []string{"Summary", "Comparison", "Totals"}, re.GetSheetList())

	summary, err := re.GetRows("Summary")
	require.NoError(t, err)
	require.NotEmpty(t, summary)
	assert.Equal(t, []string{"Metric", "Value"}, summary[0][:2])

	comparison, err := re.GetRows("Comparison")
	require.NoError(t, err)
	require.Len(t, comparison, 3)
	assert.Equal(t, "Thẻ cào Viettel", comparison[1][0])
	assert.Equal(t, string(recon.StatusMatch), comparison[1][2])
	assert.Equal(t, "Thẻ cào Vina", comparison[2][0])
	assert.Equal(t, string(recon.StatusMissingInInvoice), comparison[2][2])
}

func TestGenerate_TotalsSheetSkipsAbsentFields(t *testing.T) {
	f, err := Generate(sampleResult())
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	re, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = re.Close() }()

	rows, err := re.GetRows("Totals")
	require.NoError(t, err)
	// header plus the one field both documents stated
	require.Len(t, rows, 2)
	assert.Equal(t, "Total payment", rows[1][0])
	assert.Equal(t, "TRUE", rows[1][3])
}
