package format

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

var rupiah = accounting.Accounting{Symbol: "Rp ", Precision: 0, Thousand: ".", Decimal: ","}

// Rupiah formats an amount as "Rp 1.234.567".
func Rupiah(amount interface{}) string {
	switch v := amount.(type) {
	case decimal.Decimal:
		return rupiah.FormatMoneyDecimal(v)
	case *decimal.Decimal:
		if v == nil {
			return rupiah.FormatMoneyDecimal(decimal.Zero)
		}
		return rupiah.FormatMoneyDecimal(*v)
	case float64:
		return rupiah.FormatMoneyDecimal(decimal.NewFromFloat(v))
	case int:
		return rupiah.FormatMoneyDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return rupiah.FormatMoneyDecimal(decimal.NewFromInt(v))
	case string:
		parsed, err := decimal.NewFromString(v)
		if err != nil {
			return "Rp 0"
		}
		return rupiah.FormatMoneyDecimal(parsed)
	default:
		return "Rp 0"
	}
}

// Percent renders a discount percentage without trailing zeros.
func Percent(d decimal.Decimal) string {
	return d.String() + "%"
}
