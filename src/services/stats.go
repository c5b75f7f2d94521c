package services

import (
	"context"
	"math"
	"time"

	"cityfood/src/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

// indexed by time.Weekday
var weekdayLabels = [...]string{"Dim", "Lun", "Mar", "Mer", "Jeu", "Ven", "Sam"}

type StatsService struct {
	stats StatsStore
	now   func() time.Time
}

func NewStatsService(stats StatsStore) *StatsService {
	return &StatsService{stats: stats, now: time.Now}
}

// GetDashboardStats runs the independent aggregate queries concurrently.
// period (7 or 30) limits ordersByDay to the last days, 0 keeps every day.
func (s *StatsService) GetDashboardStats(ctx context.Context, period int) (models.DashboardStatsDTO, error) {
	var (
		counts     models.EntityCounts
		days       []models.DayCount
		categories []models.CategoryCount
		recent     []models.OrderWithBusiness
		revenue    models.Revenue
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.stats.CountEntities(gctx)
		return
	})
	g.Go(func() (err error) {
		days, err = s.stats.OrdersByDay(gctx)
		return
	})
	g.Go(func() (err error) {
		categories, err = s.stats.OrdersByCategory(gctx)
		return
	})
	g.Go(func() (err error) {
		recent, err = s.stats.RecentOrders(gctx, recentOrdersLimit)
		return
	})
	g.Go(func() (err error) {
		revenue, err = s.stats.RevenueTotals(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStatsDTO{}, fromStore(err, nil)
	}

	byCategory := make([]models.CategoryCountDTO, len(categories))
	for i, c := range categories {
		byCategory[i] = models.CategoryCountDTO{Name: c.Name, Total: c.Total}
	}

	return models.DashboardStatsDTO{
		UserCount:        counts.UserCount,
		BusinessCount:    counts.BusinessCount,
		CategoryCount:    counts.CategoryCount,
		OrderCount:       counts.OrderCount,
		OrdersByDay:      filterDays(days, period, s.now()),
		OrdersByCategory: byCategory,
		RecentOrders:     models.OrdersToDTOs(recent),
		RevenueStats:     revenueStats(revenue),
	}, nil
}

// filterDays keeps the days whose whole-day distance to now is below period.
func filterDays(days []models.DayCount, period int, now time.Time) []models.DayCountDTO {
	res := make([]models.DayCountDTO, 0, len(days))
	for _, d := range days {
		if period > 0 {
			age := math.Floor(now.Sub(d.Day).Hours() / 24)
			if age >= float64(period) {
				continue
			}
		}

		day := d.Day.UTC()
		res = append(res, models.DayCountDTO{
			Date:  day.Format(time.DateOnly),
			Label: weekdayLabels[day.Weekday()],
			Count: d.Count,
		})
	}
	return res
}

// average is 0 when there are no orders
func revenueStats(revenue models.Revenue) models.RevenueStatsDTO {
	average := decimal.Zero
	if revenue.Count > 0 {
		average = revenue.Total.Div(decimal.NewFromInt(int64(revenue.Count))).Round(2)
	}

	return models.RevenueStatsDTO{
		TotalRevenue:      revenue.Total.InexactFloat64(),
		AverageOrderValue: average.InexactFloat64(),
	}
}
