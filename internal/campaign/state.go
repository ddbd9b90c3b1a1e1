package campaign

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// maxPage bounds the page number accepted from a query string.
const maxPage = 1000

// State is the listing page state: filters, layout and the load-more position.
type State struct {
	Filters Filters
	View    View
	Page    int
}

// NewState returns the state of a freshly loaded page.
func NewState() State {
	return State{Filters: DefaultFilters(), View: ViewGrid, Page: 1}
}

// EventKind enumerates the user interactions the listing reacts to.
type EventKind int

const (
	SearchChanged EventKind = iota
	CategoryChanged
	SortChanged
	ViewChanged
	RemoveFilter
	ClearFilters
	LoadMore
)

func (k EventKind) String() string {
	switch k {
	case SearchChanged:
		return "search_changed"
	case CategoryChanged:
		return "category_changed"
	case SortChanged:
		return "sort_changed"
	case ViewChanged:
		return "view_changed"
	case RemoveFilter:
		return "remove_filter"
	case ClearFilters:
		return "clear_filters"
	case LoadMore:
		return "load_more"
	default:
		return "unknown"
	}
}

// Filter tag types accepted by RemoveFilter.
const (
	TagSearch   = "search"
	TagCategory = "category"
)

// Event is one interaction. Value carries the new search text, category, sort key,
// view or, for RemoveFilter, the tag type.
type Event struct {
	Kind  EventKind
	Value string
}

// Reduce applies e to s. Every change to filters or sorting resets the page to 1;
// LoadMore only advances the page and ViewChanged keeps it.
func Reduce(s State, e Event) State {
	switch e.Kind {
	case SearchChanged:
		s.Filters.Search = strings.TrimSpace(e.Value)
		s.Page = 1
	case CategoryChanged:
		s.Filters.Category = parseCategory(e.Value)
		s.Page = 1
	case SortChanged:
		s.Filters.Sort = parseSort(e.Value)
		s.Page = 1
	case ViewChanged:
		s.View = parseView(e.Value)
	case RemoveFilter:
		switch e.Value {
		case TagSearch:
			s.Filters.Search = ""
		case TagCategory:
			s.Filters.Category = ""
		}
		s.Page = 1
	case ClearFilters:
		s.Filters = DefaultFilters()
		s.Page = 1
	case LoadMore:
		if s.Page < 1 {
			s.Page = 1
		}
		s.Page++
	}
	return s
}

// FormEvents compares the filter form values in q against the current state
// and returns one event per control that changed, in form order. Controls
// absent from q are left alone.
func FormEvents(s State, q url.Values) []Event {
	var events []Event
	if q.Has("search") {
		if v := strings.TrimSpace(q.Get("search")); v != s.Filters.Search {
			events = append(events, Event{Kind: SearchChanged, Value: v})
		}
	}
	if q.Has("category") {
		if v := parseCategory(q.Get("category")); v != s.Filters.Category {
			events = append(events, Event{Kind: CategoryChanged, Value: string(v)})
		}
	}
	if q.Has("sort") {
		if v := parseSort(q.Get("sort")); v != s.Filters.Sort {
			events = append(events, Event{Kind: SortChanged, Value: string(v)})
		}
	}
	if q.Has("view") {
		if v := parseView(q.Get("view")); v != s.View {
			events = append(events, Event{Kind: ViewChanged, Value: string(v)})
		}
	}
	return events
}

// Tag is an active filter chip shown above the results.
type Tag struct {
	Type  string
	Label string
	Value string
}

// Listing is everything the listing view renders for one state.
type Listing struct {
	State    State
	Filtered []Campaign
	Visible  []Campaign
	HasMore  bool
	Tags     []Tag
}

// Total is the number of campaigns that passed the filters.
func (l Listing) Total() int {
	return len(l.Filtered)
}

// ResultsText is the results counter line.
func (l Listing) ResultsText() string {
	switch n := len(l.Filtered); n {
	case 0:
		return "No campaigns found"
	case 1:
		return "1 campaign found"
	default:
		return fmt.Sprintf("%d campaigns found", n)
	}
}

// NextState is the state after a load-more click. Once everything is visible the
// state is returned unchanged.
func (l Listing) NextState() State {
	if !l.HasMore {
		return l.State
	}
	return Reduce(l.State, Event{Kind: LoadMore})
}

// Compute filters, sorts and paginates campaigns for s. A page beyond the last is
// clamped so that LoadMore past the end is a no-op.
func Compute(campaigns []Campaign, s State) Listing {
	filtered := Sort(ApplyFilters(campaigns, s.Filters), s.Filters.Sort)

	if s.Page < 1 {
		s.Page = 1
	}
	if last := lastPage(len(filtered)); s.Page > last {
		s.Page = last
	}
	visible, hasMore := Paginate(filtered, s.Page, ItemsPerPage)

	return Listing{
		State:    s,
		Filtered: filtered,
		Visible:  visible,
		HasMore:  hasMore,
		Tags:     tags(s.Filters),
	}
}

func lastPage(n int) int {
	if n <= ItemsPerPage {
		return 1
	}
	return (n + ItemsPerPage - 1) / ItemsPerPage
}

func tags(f Filters) []Tag {
	var out []Tag
	if f.Search != "" {
		out = append(out, Tag{Type: TagSearch, Label: fmt.Sprintf("Search: %q", f.Search), Value: f.Search})
	}
	if f.Category != "" {
		out = append(out, Tag{Type: TagCategory, Label: "Category: " + f.Category.DisplayName(), Value: string(f.Category)})
	}
	return out
}

// ParseQuery reads state from URL query parameters. Missing or unknown values fall
// back to their defaults.
func ParseQuery(q url.Values) State {
	s := NewState()
	s.Filters.Search = strings.TrimSpace(q.Get("search"))
	s.Filters.Category = parseCategory(q.Get("category"))
	s.Filters.Sort = parseSort(q.Get("sort"))
	s.View = parseView(q.Get("view"))
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 1 {
		s.Page = min(p, maxPage)
	}
	return s
}

// Query encodes s as URL query parameters, omitting defaults.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Filters.Search != "" {
		q.Set("search", s.Filters.Search)
	}
	if s.Filters.Category != "" {
		q.Set("category", string(s.Filters.Category))
	}
	if s.Filters.Sort != "" && s.Filters.Sort != SortRecent {
		q.Set("sort", string(s.Filters.Sort))
	}
	if s.View != "" && s.View != ViewGrid {
		q.Set("view", string(s.View))
	}
	if s.Page > 1 {
		q.Set("page", strconv.Itoa(s.Page))
	}
	return q
}

// URL returns path with s encoded as its query string.
func (s State) URL(path string) string {
	if enc := s.Query().Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

func parseCategory(v string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(v)))
	if c.Valid() {
		return c
	}
	return ""
}

func parseSort(v string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(v)))
	if k.Valid() {
		return k
	}
	return SortRecent
}

func parseView(v string) View {
	if View(strings.ToLower(strings.TrimSpace(v))) == ViewList {
		return ViewList
	}
	return ViewGrid
}
