package campaign

import (
	"math"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ApplyFilters returns the campaigns that pass the search and category filters.
// The input slice is not modified. Order is unspecified until Sort is applied.
func ApplyFilters(campaigns []Campaign, f Filters) []Campaign {
	fold := cases.Fold()
	term := fold.String(strings.TrimSpace(f.Search))

	filtered := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if f.Category != "" && c.Category != f.Category {
			continue
		}
		if term != "" && !matchesSearch(fold, c, term) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

func matchesSearch(fold cases.Caser, c Campaign, term string) bool {
	for _, field := range []string{c.Title, c.Description, c.Location, c.OrganizerName} {
		if strings.Contains(fold.String(field), term) {
			return true
		}
	}
	return false
}

// Sort orders campaigns in place by key using a stable sort and returns the slice.
// An unknown key leaves the order unchanged.
func Sort(campaigns []Campaign, key SortKey) []Campaign {
	cmp := comparator(key)
	if cmp == nil {
		return campaigns
	}
	slices.SortStableFunc(campaigns, cmp)
	return campaigns
}

func comparator(key SortKey) func(a, b Campaign) int {
	switch key {
	case SortRecent:
		return byCreatedDesc
	case SortUrgent:
		return func(a, b Campaign) int {
			if a.Urgent != b.Urgent {
				if a.Urgent {
					return -1
				}
				return 1
			}
			return byCreatedDesc(a, b)
		}
	case SortPopular:
		return func(a, b Campaign) int {
			return b.DonorsCount - a.DonorsCount
		}
	case SortProgress:
		return func(a, b Campaign) int {
			return compareFloatDesc(Progress(a.Raised, a.Goal), Progress(b.Raised, b.Goal))
		}
	case SortAmount:
		return func(a, b Campaign) int {
			return compareFloatDesc(safeAmount(a.Goal), safeAmount(b.Goal))
		}
	default:
		return nil
	}
}

func byCreatedDesc(a, b Campaign) int {
	return b.CreatedAt.Compare(a.CreatedAt)
}

func compareFloatDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

func safeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Progress is the unclamped funding ratio as a percentage. A goal that is zero,
// negative or not a number yields 0, as does a raised amount that is not a number.
func Progress(raised, goal float64) float64 {
	if !(goal > 0) || math.IsInf(goal, 0) || math.IsNaN(raised) || math.IsInf(raised, 0) {
		return 0
	}
	p := raised / goal * 100
	if p < 0 {
		return 0
	}
	return p
}

// Percentage is the display percentage: Progress rounded and clamped to 100.
func Percentage(raised, goal float64) int {
	p := math.Round(Progress(raised, goal))
	if p > 100 {
		return 100
	}
	return int(p)
}

// Paginate returns the cumulative window ordered[0:page*perPage] and whether more
// items remain. Pages below 1 are treated as 1.
func Paginate(ordered []Campaign, page, perPage int) (visible []Campaign, hasMore bool) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = ItemsPerPage
	}
	end := page * perPage
	if end >= len(ordered) {
		return ordered, false
	}
	return ordered[:end], true
}
