package donation

import (
	"strconv"
	"strings"
)

// ImpactType is the kind of good a donation is translated into.
type ImpactType string

const (
	ImpactEducation   ImpactType = "education"
	ImpactHealthcare  ImpactType = "healthcare"
	ImpactDisaster    ImpactType = "disaster"
	ImpactEnvironment ImpactType = "environment"
)

type impactUnit struct {
	multiplier int64
	singular   string
	plural     string
}

type impactTable struct {
	perUnit int64
	icon    string
	units   []impactUnit
}

var impacts = map[ImpactType]impactTable{
	ImpactEducation: {perUnit: 100, icon: "📚", units: []impactUnit{
		{1, "Provide school supplies for {count} child", "Provide school supplies for {count} children"},
		{2, "Fund {count} nutritious meals for students", ""},
		{5, "Support {count} hours of quality education", ""},
	}},
	ImpactHealthcare: {perUnit: 200, icon: "🏥", units: []impactUnit{
		{1, "Provide medical checkup for {count} person", "Provide medical checkups for {count} people"},
		{2, "Fund {count} vaccination doses", ""},
		{3, "Support {count} days of treatment", ""},
	}},
	ImpactDisaster: {perUnit: 300, icon: "🆘", units: []impactUnit{
		{1, "Provide emergency kit for {count} family", "Provide emergency kits for {count} families"},
		{2, "Fund {count} days of shelter", ""},
		{3, "Support {count} relief packages", ""},
	}},
	ImpactEnvironment: {perUnit: 50, icon: "🌱", units: []impactUnit{
		{1, "Plant {count} tree", "Plant {count} trees"},
		{10, "Clean {count} kg of ocean waste", ""},
		{20, "Protect {count} sq meters of forest", ""},
	}},
}

// ImpactEstimate describes what an amount pays for.
type ImpactEstimate struct {
	Type   ImpactType
	Icon   string
	Amount int64
	Items  []string
}

// Impact estimates what amount buys for a campaign. The kind of impact is
// inferred from keywords in the campaign title, defaulting to education.
func Impact(amount int64, campaignTitle string) ImpactEstimate {
	typ := impactType(campaignTitle)
	table := impacts[typ]

	base := max(amount, 0) / table.perUnit
	items := make([]string, len(table.units))
	for i, u := range table.units {
		count := max(1, base*u.multiplier)
		text := u.singular
		if count != 1 && u.plural != "" {
			text = u.plural
		}
		items[i] = strings.Replace(text, "{count}", strconv.FormatInt(count, 10), 1)
	}

	return ImpactEstimate{Type: typ, Icon: table.icon, Amount: amount, Items: items}
}

func impactType(title string) ImpactType {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "health"), strings.Contains(t, "medical"):
		return ImpactHealthcare
	case strings.Contains(t, "disaster"), strings.Contains(t, "relief"):
		return ImpactDisaster
	case strings.Contains(t, "environment"), strings.Contains(t, "tree"), strings.Contains(t, "climate"):
		return ImpactEnvironment
	default:
		return ImpactEducation
	}
}
