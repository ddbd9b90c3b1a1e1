package campaign

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return refNow.AddDate(0, 0, -n)
}

func fixture() []Campaign {
	return []Campaign{
		{ID: "education-001", Title: "Education for Underprivileged Children", Description: "School supplies for rural children.", Category: CategoryEducation, Raised: 45000, Goal: 100000, DonorsCount: 127, Location: "Rural Maharashtra", OrganizerName: "Shiksha Foundation", CreatedAt: daysAgo(5)},
		{ID: "healthcare-002", Title: "Emergency Medical Support", Description: "Urgent medical assistance.", Category: CategoryHealthcare, Raised: 78000, Goal: 150000, DonorsCount: 234, Urgent: true, Location: "Kerala", OrganizerName: "Health Relief India", CreatedAt: daysAgo(2)},
		{ID: "disaster-003", Title: "Flood Relief Operations", Description: "Food, water and shelter.", Category: CategoryDisaster, Raised: 92000, Goal: 200000, DonorsCount: 456, Urgent: true, Location: "Assam", OrganizerName: "Disaster Response Team", CreatedAt: daysAgo(1)},
		{ID: "environment-004", Title: "Plant Trees for Future Generations", Description: "Tree plantation drive.", Category: CategoryEnvironment, Raised: 35000, Goal: 80000, DonorsCount: 89, Location: "Rajasthan", OrganizerName: "Green Earth Initiative", CreatedAt: daysAgo(10)},
		{ID: "community-005", Title: "Clean Water Access Project", Description: "Water purification for villages.", Category: CategoryCommunity, Raised: 67000, Goal: 120000, DonorsCount: 178, Location: "Odisha", OrganizerName: "Water for All", CreatedAt: daysAgo(15)},
	}
}

func ids(campaigns []Campaign) []string {
	out := make([]string, len(campaigns))
	for i, c := range campaigns {
		out[i] = c.ID
	}
	return out
}

func generate(n int) []Campaign {
	out := make([]Campaign, n)
	for i := range out {
		out[i] = Campaign{
			ID:        fmt.Sprintf("c-%02d", i),
			Title:     fmt.Sprintf("Campaign %d", i),
			Category:  Categories[i%len(Categories)],
			Goal:      1000,
			CreatedAt: daysAgo(i),
		}
	}
	return out
}

func TestApplyFiltersEmptyKeepsEverything(t *testing.T) {
	t.Parallel()

	in := fixture()
	got := ApplyFilters(in, DefaultFilters())
	assert.ElementsMatch(t, ids(in), ids(got))
	assert.Empty(t, ApplyFilters(nil, Filters{Search: "water"}))
}

func TestApplyFiltersSearch(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		search string
		want   []string
	}{
		{"water", []string{"disaster-003", "community-005"}},
		{"KERALA", []string{"healthcare-002"}},
		{"green earth", []string{"environment-004"}},
		{"  relief  ", []string{"healthcare-002", "disaster-003"}},
		{"nothing matches", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.search, func(t *testing.T) {
			t.Parallel()
			got := ApplyFilters(fixture(), Filters{Search: tc.search})
			assert.ElementsMatch(t, tc.want, ids(got))

			term := strings.ToLower(strings.TrimSpace(tc.search))
			for _, c := range got {
				haystack := strings.ToLower(c.Title + "\x00" + c.Description + "\x00" + c.Location + "\x00" + c.OrganizerName)
				assert.Contains(t, haystack, term)
			}
		})
	}
}

func TestApplyFiltersCategory(t *testing.T) {
	t.Parallel()

	got := ApplyFilters(fixture(), Filters{Category: CategoryHealthcare})
	assert.Equal(t, []string{"healthcare-002"}, ids(got))

	got = ApplyFilters(fixture(), Filters{Category: CategoryDisaster, Search: "kerala"})
	assert.Empty(t, got)
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := fixture()
	before := ids(in)
	Sort(ApplyFilters(in, Filters{Sort: SortPopular}), SortPopular)
	assert.Equal(t, before, ids(in))
}

func TestSortRecent(t *testing.T) {
	t.Parallel()

	in := []Campaign{
		{ID: "day-5", CreatedAt: daysAgo(5)},
		{ID: "day-2", CreatedAt: daysAgo(2)},
		{ID: "day-1", CreatedAt: daysAgo(1)},
	}
	assert.Equal(t, []string{"day-1", "day-2", "day-5"}, ids(Sort(in, SortRecent)))
}

func TestSortUrgentBeforeRecency(t *testing.T) {
	t.Parallel()

	in := []Campaign{
		{ID: "calm", Urgent: false, CreatedAt: daysAgo(1)},
		{ID: "urgent", Urgent: true, CreatedAt: daysAgo(5)},
	}
	assert.Equal(t, []string{"urgent", "calm"}, ids(Sort(in, SortUrgent)))

	got := Sort(fixture(), SortUrgent)
	assert.Equal(t, []string{"disaster-003", "healthcare-002", "education-001", "environment-004", "community-005"}, ids(got))
}

func TestSortKeys(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		key  SortKey
		want []string
	}{
		{SortPopular, []string{"disaster-003", "healthcare-002", "community-005", "education-001", "environment-004"}},
		{SortProgress, []string{"community-005", "healthcare-002", "disaster-003", "education-001", "environment-004"}},
		{SortAmount, []string{"disaster-003", "healthcare-002", "community-005", "education-001", "environment-004"}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.key), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ids(Sort(fixture(), tc.key)))
		})
	}
}

func TestSortIsIdempotentAndStable(t *testing.T) {
	t.Parallel()

	for _, key := range SortKeys {
		t.Run(string(key), func(t *testing.T) {
			t.Parallel()
			once := Sort(generate(30), key)
			first := ids(once)
			twice := Sort(slices.Clone(once), key)
			assert.Equal(t, first, ids(twice))
		})
	}

	// Equal donor counts keep their input order.
	tied := []Campaign{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sort(tied, SortPopular)))
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	t.Parallel()

	in := fixture()
	want := ids(in)
	assert.Equal(t, want, ids(Sort(in, SortKey("alphabetical"))))
}

func TestSortProgressWithZeroGoal(t *testing.T) {
	t.Parallel()

	in := []Campaign{
		{ID: "zero-goal", Raised: 500, Goal: 0},
		{ID: "nan", Raised: math.NaN(), Goal: 100},
		{ID: "half", Raised: 50, Goal: 100},
	}
	got := Sort(in, SortProgress)
	require.Len(t, got, 3)
	assert.Equal(t, "half", got[0].ID)
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raised, goal float64
		want         int
	}{
		{45000, 100000, 45},
		{150, 100, 100},
		{0, 100, 0},
		{1, 3, 33},
		{2, 3, 67},
		{100, 0, 0},
		{100, -5, 0},
		{math.NaN(), 100, 0},
		{100, math.Inf(1), 0},
		{-10, 100, 0},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v_of_%v", tc.raised, tc.goal), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Percentage(tc.raised, tc.goal))
		})
	}
}

func TestPaginate(t *testing.T) {
	t.Parallel()

	all := generate(25)

	visible, hasMore := Paginate(all, 1, 9)
	assert.Len(t, visible, 9)
	assert.True(t, hasMore)

	visible, hasMore = Paginate(all, 2, 9)
	assert.Len(t, visible, 18)
	assert.True(t, hasMore)

	visible, hasMore = Paginate(all, 3, 9)
	assert.Len(t, visible, 25)
	assert.False(t, hasMore)

	visible, hasMore = Paginate(all, 0, 9)
	assert.Len(t, visible, 9)
	assert.True(t, hasMore)

	visible, hasMore = Paginate(nil, 1, 9)
	assert.Empty(t, visible)
	assert.False(t, hasMore)
}
