package activity

import (
	"time"

	"github.com/samber/lo"
)

// TokenStats summarizes locally recorded activity for the widget. All fields
// are zero when no matching dates exist.
type TokenStats struct {
	TodayTokens   int64 `json:"todayTokens"`
	WeekTokens    int64 `json:"weekTokens"`
	TodayMessages int64 `json:"todayMessages"`
	WeekMessages  int64 `json:"weekMessages"`
}

const dateLayout = "2006-01-02"

// Aggregate reduces the log to "today" and trailing-week totals. Today is the
// local calendar date of now; the trailing window is the inclusive date range
// from seven days before today through today, compared lexicographically
// (valid for fixed-width ISO dates).
//
// Today's figures take the last entry seen for the date — the log rewrites a
// whole day at a time, so the last entry is the day's recomputed value.
// Weekly figures sum every in-window entry, duplicate dates included.
func Aggregate(l Log, now time.Time) TokenStats {
	today := now.Format(dateLayout)
	weekAgo := now.AddDate(0, 0, -7).Format(dateLayout)

	var stats TokenStats

	for _, day := range l.DailyModelTokens {
		dayTotal := lo.Sum(lo.Values(day.TokensByModel))
		if day.Date == today {
			stats.TodayTokens = dayTotal
		}
		if day.Date >= weekAgo && day.Date <= today {
			stats.WeekTokens += dayTotal
		}
	}

	for _, day := range l.DailyActivity {
		if day.Date == today {
			stats.TodayMessages = day.MessageCount
		}
		if day.Date >= weekAgo && day.Date <= today {
			stats.WeekMessages += day.MessageCount
		}
	}

	return stats
}
