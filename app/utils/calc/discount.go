package calc

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

func CalculateDiscount(baseTotal, discountPercent decimal.Decimal) decimal.Decimal {
	return baseTotal.Mul(discountPercent).Div(hundred)
}

// LineSubtotal is price*qty minus the percentage discount on that amount.
func LineSubtotal(price decimal.Decimal, qty int, discountPercent decimal.Decimal) decimal.Decimal {
	base := price.Mul(decimal.NewFromInt(int64(qty)))
	return base.Sub(CalculateDiscount(base, discountPercent))
}

// Average returns total/count rounded to 2 places, or zero when count is zero.
func Average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}

// HasCents reports whether d fits a two-decimal money or percent column
// without rounding.
func HasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
