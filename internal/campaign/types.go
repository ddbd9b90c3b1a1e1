package campaign

import (
	"context"
	"time"
)

// Category is one of the fixed campaign categories.
type Category string

const (
	CategoryEducation   Category = "education"
	CategoryHealthcare  Category = "healthcare"
	CategoryDisaster    Category = "disaster"
	CategoryEnvironment Category = "environment"
	CategoryCommunity   Category = "community"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEducation,
	CategoryHealthcare,
	CategoryDisaster,
	CategoryEnvironment,
	CategoryCommunity,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayName is the human label shown on badges and filter tags.
func (c Category) DisplayName() string {
	switch c {
	case CategoryEducation:
		return "Education"
	case CategoryHealthcare:
		return "Healthcare"
	case CategoryDisaster:
		return "Disaster Relief"
	case CategoryEnvironment:
		return "Environment"
	case CategoryCommunity:
		return "Community"
	default:
		return "Other"
	}
}

// Campaign is a fundraising record. It is read-only once loaded.
type Campaign struct {
	ID            string    `bson:"_id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description" json:"description"` // markdown
	Image         string    `bson:"image" json:"image"`
	Category      Category  `bson:"category" json:"category"`
	Raised        float64   `bson:"raised" json:"raised"`
	Goal          float64   `bson:"goal" json:"goal"`
	DonorsCount   int       `bson:"donors_count" json:"donorsCount"`
	Deadline      time.Time `bson:"deadline" json:"deadline"`
	Urgent        bool      `bson:"urgent" json:"urgent"`
	Location      string    `bson:"location" json:"location"`
	OrganizerName string    `bson:"organizer_name" json:"organizerName"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// Ended reports whether the deadline has passed at now.
func (c Campaign) Ended(now time.Time) bool {
	return !c.Deadline.IsZero() && c.Deadline.Before(now)
}

// SortKey names an ordering rule for the listing.
type SortKey string

const (
	SortRecent   SortKey = "recent"
	SortUrgent   SortKey = "urgent"
	SortPopular  SortKey = "popular"
	SortProgress SortKey = "progress"
	SortAmount   SortKey = "amount"
)

// SortKeys lists every sort key in the order the dropdown shows them.
var SortKeys = []SortKey{SortRecent, SortUrgent, SortPopular, SortProgress, SortAmount}

// Valid reports whether k is a known sort key.
func (k SortKey) Valid() bool {
	for _, known := range SortKeys {
		if k == known {
			return true
		}
	}
	return false
}

// Label is the dropdown text for the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortRecent:
		return "Most Recent"
	case SortUrgent:
		return "Most Urgent"
	case SortPopular:
		return "Most Popular"
	case SortProgress:
		return "Closest to Goal"
	case SortAmount:
		return "Highest Goal"
	default:
		return string(k)
	}
}

// View is the listing layout. It never affects which campaigns are shown.
type View string

const (
	ViewGrid View = "grid"
	ViewList View = "list"
)

// Filters narrows and orders the campaign collection.
type Filters struct {
	Search   string
	Category Category
	Sort     SortKey
}

// DefaultFilters returns the filters used on first load and after a clear.
func DefaultFilters() Filters {
	return Filters{Sort: SortRecent}
}

// ItemsPerPage is the fixed page size of the listing.
const ItemsPerPage = 9

// Source supplies the full campaign collection. Implementations may be slow or fail.
type Source interface {
	Campaigns(ctx context.Context) ([]Campaign, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]Campaign, error)

// Campaigns calls f.
func (f SourceFunc) Campaigns(ctx context.Context) ([]Campaign, error) {
	return f(ctx)
}
