package utils

import (
	"strings"
	"time"
)

const defaultPerPage = 10

// Listable is implemented by every response DTO the dashboard lists.
type Listable interface {
	// texts matched by the q search
	ListingText() []string
	// category id for businesses, section id for items, business id for sections
	ListingGroup() string
	// "open"/"closed" for businesses and items, the order status for orders
	ListingStatus() string
	ListingDate() time.Time
}

type ListQuery struct {
	Q          string `form:"q"`
	CategoryId string `form:"categoryId" binding:"omitempty,uuid"`
	Status     string `form:"status"`
	StartDate  string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PerPage    int    `form:"perPage" binding:"omitempty,min=1,max=100"`
}

type Page[T any] struct {
	Items     []T
	Total     int
	PageCount int
}

func (q ListQuery) paginated() bool {
	return q.Page > 0 || q.PerPage > 0
}

// ApplyListing filters, then slices out the requested page. Dates are whole
// UTC days on both ends. Without pagination parameters the filtered list is
// returned as a single page.
func ApplyListing[T Listable](items []T, q ListQuery) Page[T] {
	filtered := make([]T, 0, len(items))

	search := strings.ToLower(strings.TrimSpace(q.Q))
	start, hasStart := parseDay(q.StartDate)
	end, hasEnd := parseDay(q.EndDate)
	if hasEnd {
		end = end.Add(24 * time.Hour)
	}

	for _, item := range items {
		if search != "" && !matchesText(item.ListingText(), search) {
			continue
		}
		if q.CategoryId != "" && !strings.EqualFold(item.ListingGroup(), q.CategoryId) {
			continue
		}
		if q.Status != "" && !strings.EqualFold(item.ListingStatus(), q.Status) {
			continue
		}

		date := item.ListingDate().UTC()
		if hasStart && date.Before(start) {
			continue
		}
		if hasEnd && !date.Before(end) {
			continue
		}

		filtered = append(filtered, item)
	}

	total := len(filtered)
	if !q.paginated() {
		pageCount := 0
		if total > 0 {
			pageCount = 1
		}
		return Page[T]{Items: filtered, Total: total, PageCount: pageCount}
	}

	perPage := q.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := max(q.Page, 1)

	from := min((page-1)*perPage, total)
	to := min(from+perPage, total)

	return Page[T]{
		Items:     filtered[from:to],
		Total:     total,
		PageCount: (total + perPage - 1) / perPage,
	}
}

func matchesText(texts []string, search string) bool {
	for _, text := range texts {
		if strings.Contains(strings.ToLower(text), search) {
			return true
		}
	}
	return false
}

func parseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
