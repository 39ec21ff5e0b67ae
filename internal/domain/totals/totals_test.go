package totals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditlab/invoice-reconciler/internal/domain/recon"
)

func TestReconcile_FieldMissingOnOneSideIsExcluded(t *testing.T) {
	left := recon.Totals{recon.TotalVATRate: 10, recon.TotalPayment: 1100000}
	right := recon.Totals{recon.TotalPayment: 1100000}

	out := Reconcile(left, right, 0, 0)

	// total_payment agrees; vat_rate is only stated on one side and must
	// not drag the verdict down
	assert.True(t, out.Match)
	assert.True(t, out.Fields[recon.TotalPayment].Match)

	vat := out.Fields[recon.TotalVATRate]
	assert.False(t, vat.Match)
	require.NotNil(t, vat.Reconciliation)
	assert.Equal(t, 10.0, *vat.Reconciliation)
	assert.Nil(t, vat.Invoice)
}

func TestReconcile_BothPresentAndDisagreeing(t *testing.T) {
	left := recon.Totals{recon.TotalPayment: 1100000}
	right := recon.Totals{recon.TotalPayment: 1200000}

	out := Reconcile(left, right, 0.02, 0)

	assert.False(t, out.Match)
	assert.False(t, out.Fields[recon.TotalPayment].Match)
}

func TestReconcile_ToleranceSelectionPerField(t *testing.T) {
	left := recon.Totals{
		recon.TotalVATAmount: 100000,
		recon.TotalPayment:   1100000,
	}
	right := recon.Totals{
		recon.TotalVATAmount: 101000, // off by 1%
		recon.TotalPayment:   1111000, // off by ~1%
	}

	// generous VAT tolerance, strict amount tolerance
	out := Reconcile(left, right, 0, 0.02)

	assert.True(t, out.Fields[recon.TotalVATAmount].Match)
	assert.False(t, out.Fields[recon.TotalPayment].Match)
	assert.False(t, out.Match)
}

func TestReconcile_ZeroValueIsNotAbsence(t *testing.T) {
	left := recon.Totals{recon.TotalVATAmount: 0}
	right := recon.Totals{recon.TotalVATAmount: 50000}

	out := Reconcile(left, right, 0, 0)

	// an explicit zero participates in the verdict
	assert.False(t, out.Match)
	assert.False(t, out.Fields[recon.TotalVATAmount].Match)
}

func TestReconcile_NoSharedFields(t *testing.T) {
	left := recon.Totals{recon.TotalVATRate: 10}
	right := recon.Totals{recon.TotalBeforeTax: 1000000}

	out := Reconcile(left, right, 0, 0)

	// nothing to disagree on
	assert.True(t, out.Match)
	assert.Len(t, out.Fields, len(recon.TotalFields))
}
