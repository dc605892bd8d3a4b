package services

import (
	"sort"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/utils/calc"
	"github.com/shopspring/decimal"
)

type SalesSummary struct {
	TotalSales   decimal.Decimal
	TotalOrders  int64
	AverageSales decimal.Decimal
}

type CategorySales struct {
	Name  string
	Total decimal.Decimal
}

type ProductSales struct {
	Name     string
	Quantity int
	Total    decimal.Decimal
}

type HourlyBucket struct {
	Hour  int
	Total decimal.Decimal
	Count int
}

type DailyBucket struct {
	Date  time.Time
	Label string
	Total decimal.Decimal
	Count int
}

// Summarize totals the given orders. The average is zero for no orders.
func Summarize(orders []models.Order) SalesSummary {
	total := decimal.Zero
	for i := range orders {
		total = total.Add(orders[i].TotalPrice)
	}
	count := int64(len(orders))
	return SalesSummary{
		TotalSales:   total,
		TotalOrders:  count,
		AverageSales: calc.Average(total, count),
	}
}

// TopCategories ranks categories by discounted line revenue. Lines whose
// product has no category are left out before the list is cut to n.
func TopCategories(orders []models.Order, n int) []CategorySales {
	totals := make(map[string]decimal.Decimal)
	for i := range orders {
		for j := range orders[i].OrderItems {
			item := &orders[i].OrderItems[j]
			name := item.Product.CategoryName()
			if name == "" {
				continue
			}
			totals[name] = totals[name].Add(item.Subtotal())
		}
	}

	out := make([]CategorySales, 0, len(totals))
	for name, total := range totals {
		out = append(out, CategorySales{Name: name, Total: total})
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Total.Equal(out[b].Total) {
			return out[a].Total.GreaterThan(out[b].Total)
		}
		return out[a].Name < out[b].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopProducts ranks products by discounted line revenue.
func TopProducts(orders []models.Order, n int) []ProductSales {
	byName := make(map[string]*ProductSales)
	for i := range orders {
		for j := range orders[i].OrderItems {
			item := &orders[i].OrderItems[j]
			name := item.Product.Name
			if name == "" {
				name = item.ProductID
			}
			row, ok := byName[name]
			if !ok {
				row = &ProductSales{Name: name, Total: decimal.Zero}
				byName[name] = row
			}
			row.Quantity += item.Quantity
			row.Total = row.Total.Add(item.Subtotal())
		}
	}

	out := make([]ProductSales, 0, len(byName))
	for _, row := range byName {
		out = append(out, *row)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].Total.Equal(out[b].Total) {
			return out[a].Total.GreaterThan(out[b].Total)
		}
		return out[a].Name < out[b].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// HourlyHistogram buckets orders by local hour of day. All 24 hours are
// present, empty ones with zero values.
func HourlyHistogram(orders []models.Order, loc *time.Location) []HourlyBucket {
	buckets := make([]HourlyBucket, 24)
	for h := range buckets {
		buckets[h] = HourlyBucket{Hour: h, Total: decimal.Zero}
	}
	for i := range orders {
		h := orders[i].CreatedAt.In(loc).Hour()
		buckets[h].Total = buckets[h].Total.Add(orders[i].TotalPrice)
		buckets[h].Count++
	}
	return buckets
}

// DailySeries returns one bucket per local calendar day, from the day of
// start for the given number of days.
func DailySeries(orders []models.Order, start time.Time, days int, loc *time.Location) []DailyBucket {
	first := startOfDay(start.In(loc))
	buckets := make([]DailyBucket, days)
	index := make(map[string]int, days)
	for d := 0; d < days; d++ {
		day := first.AddDate(0, 0, d)
		buckets[d] = DailyBucket{Date: day, Label: day.Format("02/01"), Total: decimal.Zero}
		index[day.Format("2006-01-02")] = d
	}
	for i := range orders {
		key := orders[i].CreatedAt.In(loc).Format("2006-01-02")
		if d, ok := index[key]; ok {
			buckets[d].Total = buckets[d].Total.Add(orders[i].TotalPrice)
			buckets[d].Count++
		}
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
