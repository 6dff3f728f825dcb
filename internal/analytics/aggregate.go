package analytics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"augmend/internal/activity"
	"augmend/internal/timeutil"
)

const (
	BaselineScore = 75
	demoScoreSpan = 15
	perActivity   = 5
	maxScore      = 100
)

// Scorer turns a day's activity count into a wellness score. Idle days get
// the baseline, or a draw from [75,90) in demo mode.
type Scorer struct {
	Demo bool
	// Intn defaults to math/rand.Intn.
	Intn func(n int) int
}

func (s Scorer) Score(activities int) int {
	if activities > 0 {
		return min(maxScore, BaselineScore+perActivity*activities)
	}
	if !s.Demo {
		return BaselineScore
	}
	intn := s.Intn
	if intn == nil {
		intn = rand.Intn
	}
	return BaselineScore + intn(demoScoreSpan)
}

type DayStat struct {
	Activities    int `json:"activities"`
	Duration      int `json:"duration"`
	WellnessScore int `json:"wellnessScore"`
}

type Day struct {
	Date time.Time
	DayStat
}

// DailyBreakdown buckets logs into the n calendar days ending on today,
// oldest first. Logs outside the window are ignored.
func DailyBreakdown(logs []activity.Log, n int, today time.Time, sc Scorer) []Day {
	loc := today.Location()
	start := timeutil.StartOfDay(today).AddDate(0, 0, -(n - 1))

	days := make([]Day, n)
	for i := range days {
		days[i].Date = start.AddDate(0, 0, i)
	}
	for _, l := range logs {
		idx := timeutil.DaysBetween(start, l.Timestamp.In(loc))
		if idx < 0 || idx >= n {
			continue
		}
		days[idx].Activities++
		if l.Duration != nil {
			days[idx].Duration += *l.Duration
		}
	}
	for i := range days {
		days[i].WellnessScore = sc.Score(days[i].Activities)
	}
	return days
}

// ByDate keys a breakdown by DayKey, the stored snapshot shape.
func ByDate(days []Day) map[string]DayStat {
	out := make(map[string]DayStat, len(days))
	for _, d := range days {
		out[timeutil.DayKey(d.Date)] = d.DayStat
	}
	return out
}

// ActivePercent is the share of days with at least one activity, 0..100.
func ActivePercent(days []Day) int {
	if len(days) == 0 {
		return 0
	}
	active := 0
	for _, d := range days {
		if d.Activities > 0 {
			active++
		}
	}
	return int(math.Round(float64(active) * 100 / float64(len(days))))
}

// MeanScore is the rounded mean daily score.
func MeanScore(days []Day) int {
	if len(days) == 0 {
		return BaselineScore
	}
	total := 0
	for _, d := range days {
		total += d.WellnessScore
	}
	return int(math.Round(float64(total) / float64(len(days))))
}

type SeriesPoint struct {
	Label string `json:"day"`
	Score int    `json:"score"`
}

// DailySeries labels each day by its short weekday name.
func DailySeries(days []Day) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(days))
	for _, d := range days {
		out = append(out, SeriesPoint{Label: timeutil.WeekdayLabel(d.Date), Score: d.WellnessScore})
	}
	return out
}

// Weeks splits a breakdown into consecutive 7-day chunks, oldest first.
// A trailing partial chunk is dropped.
func Weeks(days []Day) [][]Day {
	var out [][]Day
	for i := 0; i+7 <= len(days); i += 7 {
		out = append(out, days[i:i+7])
	}
	return out
}

// WeeklySeries averages each 7-day chunk into a "Week N" point.
func WeeklySeries(days []Day) []SeriesPoint {
	weeks := Weeks(days)
	out := make([]SeriesPoint, 0, len(weeks))
	for i, w := range weeks {
		out = append(out, SeriesPoint{Label: fmt.Sprintf("Week %d", i+1), Score: MeanScore(w)})
	}
	return out
}

type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// MoodStats counts moods, highest first. Ties keep first-seen order.
func MoodStats(moods []string) []MoodCount {
	idx := map[string]int{}
	out := []MoodCount{}
	for _, m := range moods {
		i, ok := idx[m]
		if !ok {
			idx[m] = len(out)
			out = append(out, MoodCount{Mood: m})
			i = len(out) - 1
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}
