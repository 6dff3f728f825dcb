// Package streak turns a set of activity timestamps into runs of
// consecutive calendar days.
package streak

import (
	"sort"
	"time"

	"augmend/internal/timeutil"
)

// Run is a maximal stretch of consecutive active days.
type Run struct {
	Start  time.Time `json:"startDate"`
	End    time.Time `json:"endDate"`
	Length int       `json:"length"`
}

type Result struct {
	// Current is the last run's length, but only while that run ends today
	// or yesterday.
	Current int `json:"currentStreak"`
	// LastActiveStreak is the last run's length regardless of recency.
	LastActiveStreak    int   `json:"lastActiveStreak"`
	IsStreakActiveToday bool  `json:"isStreakActiveToday"`
	Longest             int   `json:"longestStreak"`
	Runs                []Run `json:"streaks"`
}

// Calculate groups dates into runs. Time of day is ignored; dates are
// compared in today's location.
func Calculate(dates []time.Time, today time.Time) Result {
	loc := today.Location()
	days := distinctDays(dates, loc)
	if len(days) == 0 {
		return Result{Runs: []Run{}}
	}

	var runs []Run
	cur := Run{Start: days[0], End: days[0], Length: 1}
	for _, d := range days[1:] {
		if timeutil.DaysBetween(cur.End, d) == 1 {
			cur.End = d
			cur.Length++
			continue
		}
		runs = append(runs, cur)
		cur = Run{Start: d, End: d, Length: 1}
	}
	runs = append(runs, cur)

	res := Result{Runs: runs}
	for _, r := range runs {
		if r.Length > res.Longest {
			res.Longest = r.Length
		}
	}

	last := runs[len(runs)-1]
	res.LastActiveStreak = last.Length
	gap := timeutil.DaysBetween(last.End, today.In(loc))
	res.IsStreakActiveToday = gap == 0
	if gap == 0 || gap == 1 {
		res.Current = last.Length
	}
	return res
}

func distinctDays(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[string]struct{}, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, t := range dates {
		d := timeutil.StartOfDay(t.In(loc))
		k := timeutil.DayKey(d)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
