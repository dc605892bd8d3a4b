package format

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRupiah(t *testing.T) {
	assert.Equal(t, "Rp 23.000", Rupiah(decimal.NewFromInt(23000)))
	assert.Equal(t, "Rp 1.250.000", Rupiah(1250000))
	assert.Equal(t, "Rp 500", Rupiah("500"))
	assert.Equal(t, "Rp 0", Rupiah("not a number"))
	assert.Equal(t, "Rp 0", Rupiah(struct{}{}))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "10%", Percent(decimal.RequireFromString("10.00")))
	assert.Equal(t, "12.5%", Percent(decimal.RequireFromString("12.50")))
}
