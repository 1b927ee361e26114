package porter

import (
	"strings"
	"time"

	"github.com/financify/financify/internal/models"
)

// dateFormats is the fixed precedence order for imported date strings.
// The first layout that parses wins, so "15-03-2024" is day-month-year and
// "03/15/2024" is month/day/year.
var dateFormats = []string{
	models.DateLayout, // 2006-01-02 (ISO)
	"02-01-2006",      // DD-MM-YYYY
	"01/02/2006",      // MM/DD/YYYY
	"02/01/2006",      // DD/MM/YYYY
	"2006/01/02",      // YYYY/MM/DD
	"02-01-06",        // DD-MM-YY
}

// ParseFlexibleDate tries each supported calendar-date layout in precedence
// order and returns the first match. The second return value is false when
// no layout parses.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
