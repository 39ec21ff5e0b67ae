package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumericMatch(t *testing.T) {
	tests := []struct {
		name      string
		a, b, tol float64
		want      bool
	}{
		{"exact equality zero tolerance", 500000, 500000, 0, true},
		{"inequality zero tolerance", 500000, 510000, 0, false},
		{"within two percent", 500000, 510000, 0.02, true},
		{"boundary inclusive at exactly two percent", 100, 102, 0.02, true},
		{"just outside tolerance", 100, 103, 0.02, false},
		{"both zero always match", 0, 0, 0, true},
		{"zero against nonzero", 0, 1, 0.02, false},
		{"negative values", -100, -101, 0.02, true},
		{"symmetric", 510000, 500000, 0.02, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumericMatch(tt.a, tt.b, tt.tol))
		})
	}
}

// The relative bound scales with the larger magnitude, so the predicate
// must agree with a direct evaluation of |a-b| <= t*max(|a|,|b|).
func TestNumericMatch_RelativeBound(t *testing.T) {
	cases := []struct {
		a, b, tol float64
	}{
		{1000, 1019, 0.02},
		{1000, 1021, 0.02},
		{0.001, 0.00102, 0.05},
		{1e9, 1.04e9, 0.05},
	}

	for _, c := range cases {
		maxAbs := c.a
		if c.b > maxAbs {
			maxAbs = c.b
		}
		want := (c.b-c.a) <= c.tol*maxAbs && (c.a-c.b) <= c.tol*maxAbs
		assert.Equal(t, want, NumericMatch(c.a, c.b, c.tol), "a=%v b=%v tol=%v", c.a, c.b, c.tol)
	}
}

func TestTextSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "sim card", "sim card", 1, 1},
		{"both empty", "", "", 1, 1},
		{"one empty", "sim", "", 0, 0},
		{"containment scores full", "the sim", "sim", 1, 1},
		{"single edit", "sim card", "sim carD", 0.8, 0.99},
		{"unrelated", "sim card", "router", 0, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TextSimilarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestTextSimilarity_Symmetric(t *testing.T) {
	assert.Equal(t, TextSimilarity("thẻ cào", "thẻ nạp"), TextSimilarity("thẻ nạp", "thẻ cào"))
}
