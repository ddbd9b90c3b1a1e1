// Package format renders amounts, counts and dates the way the site displays them.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Currency formats an amount in rupees with Indian digit grouping and no
// fractional part, e.g. ₹1,23,456.
func Currency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	return sign + "₹" + groupIndian(strconv.FormatInt(n, 10))
}

// groupIndian inserts separators as 12,34,56,789: the last three digits, then pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	parts = append([]string{head}, parts...)
	return strings.Join(parts, ",") + "," + tail
}

// Number abbreviates large counts: 1.2 Cr, 4.5 L, 2.3K.
func Number(n float64) string {
	switch {
	case n >= 1e7:
		return fmt.Sprintf("%.1f Cr", n/1e7)
	case n >= 1e5:
		return fmt.Sprintf("%.1f L", n/1e5)
	case n >= 1e3:
		return fmt.Sprintf("%.1fK", n/1e3)
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}

// TimeLeft describes the time remaining until deadline.
func TimeLeft(deadline, now time.Time) string {
	if deadline.IsZero() {
		return ""
	}
	if deadline.Before(now) {
		return "Campaign ended"
	}
	days := int(math.Ceil(deadline.Sub(now).Hours() / 24))
	switch {
	case days == 0:
		return "Last day"
	case days == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

var intervals = []struct {
	unit    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
}

// RelativeTime describes how long ago t was, e.g. "2 days ago".
func RelativeTime(t, now time.Time) string {
	diff := int64(now.Sub(t) / time.Second)
	for _, iv := range intervals {
		if n := diff / iv.seconds; n >= 1 {
			if n == 1 {
				return "1 " + iv.unit + " ago"
			}
			return fmt.Sprintf("%d %ss ago", n, iv.unit)
		}
	}
	return "Just now"
}
