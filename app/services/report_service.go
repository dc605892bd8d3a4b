package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/mini-pos/app/models"
	"github.com/Rakhulsr/mini-pos/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAll     Period = "all"

	ReportPageSize = 15
	TopN           = 5
	DashboardDays  = 7
)

// ParsePeriod maps the period query parameter; anything unknown means all.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return Period(s)
	default:
		return PeriodAll
	}
}

func (p Period) Label() string {
	switch p {
	case PeriodDaily:
		return "Harian"
	case PeriodWeekly:
		return "Mingguan"
	case PeriodMonthly:
		return "Bulanan"
	default:
		return "Semua"
	}
}

// Bounds returns the [from, to) filter of the period relative to now. A nil
// bound is open.
func (p Period) Bounds(now time.Time, loc *time.Location) (from, to *time.Time) {
	today := startOfDay(now.In(loc))
	switch p {
	case PeriodDaily:
		tomorrow := today.AddDate(0, 0, 1)
		return &today, &tomorrow
	case PeriodWeekly:
		start := today.AddDate(0, 0, -7)
		return &start, nil
	case PeriodMonthly:
		start := today.AddDate(0, 0, -30)
		return &start, nil
	default:
		return nil, nil
	}
}

type SalesReport struct {
	Period      Period
	Start       time.Time
	End         time.Time
	Summary     SalesSummary
	Orders      []models.Order
	GeneratedAt time.Time
}

type OrdersPage struct {
	Orders     []models.Order
	Page       int
	TotalPages int
	Total      int
}

func (p OrdersPage) HasPrev() bool { return p.Page > 1 }
func (p OrdersPage) HasNext() bool { return p.Page < p.TotalPages }

type DashboardStats struct {
	TotalProducts    int64
	TotalCustomers   int64
	TotalOrders      int64
	TotalRevenue     decimal.Decimal
	TodaySummary     SalesSummary
	LowStockCount    int64
	LowStockProducts []models.Product
	RecentOrders     []models.Order
	Daily            []DailyBucket
}

type ReportService struct {
	orderRepo    repositories.OrderRepository
	productRepo  repositories.ProductRepositoryImpl
	customerRepo repositories.CustomerRepositoryImpl
	loc          *time.Location
	now          func() time.Time
	log          logrus.FieldLogger
}

func NewReportService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepositoryImpl,
	customerRepo repositories.CustomerRepositoryImpl,
	loc *time.Location,
	log logrus.FieldLogger,
) *ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		loc:          loc,
		now:          time.Now,
		log:          log.WithField("module", "ReportService"),
	}
}

func (s *ReportService) Location() *time.Location { return s.loc }

func (s *ReportService) ordersFor(ctx context.Context, period Period) ([]models.Order, error) {
	from, to := period.Bounds(s.now(), s.loc)
	orders, err := s.orderRepo.FindBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s orders: %w", period, err)
	}
	return orders, nil
}

func (s *ReportService) Summary(ctx context.Context, period Period) (SalesSummary, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return SalesSummary{}, err
	}
	return Summarize(orders), nil
}

func (s *ReportService) TopCategories(ctx context.Context, period Period) ([]CategorySales, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return nil, err
	}
	return TopCategories(orders, TopN), nil
}

func (s *ReportService) TopProducts(ctx context.Context, period Period) ([]ProductSales, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return nil, err
	}
	return TopProducts(orders, TopN), nil
}

func (s *ReportService) HourlySales(ctx context.Context, period Period) ([]HourlyBucket, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return nil, err
	}
	return HourlyHistogram(orders, s.loc), nil
}

type Analytics struct {
	Summary       SalesSummary
	TopCategories []CategorySales
	TopProducts   []ProductSales
	Hourly        []HourlyBucket
}

// Analytics computes every analytics view from a single load of the period's
// orders.
func (s *ReportService) Analytics(ctx context.Context, period Period) (*Analytics, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return nil, err
	}
	return &Analytics{
		Summary:       Summarize(orders),
		TopCategories: TopCategories(orders, TopN),
		TopProducts:   TopProducts(orders, TopN),
		Hourly:        HourlyHistogram(orders, s.loc),
	}, nil
}

// DailySales covers the last days calendar days, today included.
func (s *ReportService) DailySales(ctx context.Context, days int) ([]DailyBucket, error) {
	today := startOfDay(s.now().In(s.loc))
	start := today.AddDate(0, 0, -(days - 1))
	end := today.AddDate(0, 0, 1)
	orders, err := s.orderRepo.FindBetween(ctx, &start, &end)
	if err != nil {
		return nil, err
	}
	return DailySeries(orders, start, days, s.loc), nil
}

// SalesReport gathers what the report page and its exports show.
func (s *ReportService) SalesReport(ctx context.Context, period Period) (*SalesReport, error) {
	orders, err := s.ordersFor(ctx, period)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].CreatedAt = orders[i].CreatedAt.In(s.loc)
	}
	now := s.now().In(s.loc)
	report := &SalesReport{
		Period:      period,
		End:         startOfDay(now),
		Summary:     Summarize(orders),
		Orders:      orders,
		GeneratedAt: now,
	}

	from, _ := period.Bounds(now, s.loc)
	if from != nil {
		report.Start = *from
	} else {
		report.Start = report.End
		first, err := s.orderRepo.FirstOrderDate(ctx)
		if err != nil {
			return nil, err
		}
		if first != nil {
			report.Start = startOfDay(first.In(s.loc))
		}
	}
	return report, nil
}

// Paginate slices a report's orders into pages of ReportPageSize. Out of
// range pages are clamped.
func Paginate(orders []models.Order, page int) OrdersPage {
	total := len(orders)
	totalPages := (total + ReportPageSize - 1) / ReportPageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * ReportPageSize
	end := start + ReportPageSize
	if end > total {
		end = total
	}
	return OrdersPage{Orders: orders[start:end], Page: page, TotalPages: totalPages, Total: total}
}

func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.productRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalCustomers, err = s.customerRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.orderRepo.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.TodaySummary, err = s.Summary(ctx, PeriodDaily); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.productRepo.CountLowStock(ctx, models.LowStockThreshold); err != nil {
		return nil, err
	}
	if stats.LowStockProducts, err = s.productRepo.GetLowStock(ctx, models.LowStockThreshold, 5); err != nil {
		return nil, err
	}
	if stats.RecentOrders, err = s.orderRepo.GetRecent(ctx, 5); err != nil {
		return nil, err
	}
	if stats.Daily, err = s.DailySales(ctx, DashboardDays); err != nil {
		return nil, err
	}
	return stats, nil
}
