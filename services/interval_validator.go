package services

import (
	"sort"
	"strconv"
	"time"

	"github.com/clubsplusplus/club_recruitment/models"
)

type TimeRange struct {
	StartTime string `json:"startTime" validate:"required"`
	EndTime   string `json:"endTime" validate:"required"`
}

type DateSchedule struct {
	Date       string      `json:"date" validate:"required"`
	TimeRanges []TimeRange `json:"timeRanges" validate:"dive"`
}

// TimeWindow is a validated availability window. Start and End fall on Date.
type TimeWindow struct {
	Date  models.Date
	Start time.Time
	End   time.Time
}

// ValidateWindows parses dates and ranges and rejects ranges that overlap on
// the same date. Windows come back in input order.
func ValidateWindows(dates []DateSchedule, slotDurationMinutes, panelCount int) ([]TimeWindow, error) {
	if slotDurationMinutes <= 0 {
		return nil, &ValidationError{Field: "slotDurationMinutes", Message: "must be a positive number of minutes"}
	}
	if panelCount <= 0 {
		return nil, &ValidationError{Field: "interviewPanelCount", Message: "must be at least 1"}
	}

	windows := make([]TimeWindow, 0)
	ranges := make([]TimeRange, 0)
	for i, ds := range dates {
		date, err := models.ParseDate(ds.Date)
		if err != nil {
			return nil, &ValidationError{Field: fieldName("dates", i, "date"), Message: "expected YYYY-MM-DD, got " + quote(ds.Date)}
		}

		for j, tr := range ds.TimeRanges {
			start, err := models.ParseClock(tr.StartTime)
			if err != nil {
				return nil, &ValidationError{Field: fieldName("dates", i, "timeRanges", j, "startTime"), Message: "expected HH:MM, got " + quote(tr.StartTime)}
			}
			end, err := models.ParseClock(tr.EndTime)
			if err != nil {
				return nil, &ValidationError{Field: fieldName("dates", i, "timeRanges", j, "endTime"), Message: "expected HH:MM, got " + quote(tr.EndTime)}
			}
			if !end.After(start.Time) {
				return nil, &ValidationError{Field: fieldName("dates", i, "timeRanges", j), Message: "end time must be after start time"}
			}
			windows = append(windows, TimeWindow{
				Date:  date,
				Start: date.At(start, time.UTC),
				End:   date.At(end, time.UTC),
			})
			ranges = append(ranges, tr)
		}
	}

	if err := checkOverlap(windows, ranges); err != nil {
		return nil, err
	}
	return windows, nil
}

// checkOverlap groups windows by calendar day, so a date listed in several
// entries is checked as one day. Days are checked in order of first appearance.
func checkOverlap(windows []TimeWindow, ranges []TimeRange) error {
	days := make([]string, 0)
	byDay := make(map[string][]int)
	for i, w := range windows {
		day := w.Date.String()
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], i)
	}

	for _, day := range days {
		order := byDay[day]
		sort.SliceStable(order, func(a, b int) bool {
			return windows[order[a]].Start.Before(windows[order[b]].Start)
		})

		for k := 1; k < len(order); k++ {
			prev, next := windows[order[k-1]], windows[order[k]]
			if next.Start.Before(prev.End) {
				return &OverlapError{
					Date:   day,
					First:  ranges[order[k-1]],
					Second: ranges[order[k]],
				}
			}
		}
	}
	return nil
}

// fieldName renders a JSON path such as dates[0].timeRanges[1].startTime.
func fieldName(parts ...any) string {
	out := ""
	for _, p := range parts {
		switch v := p.(type) {
		case int:
			out += "[" + strconv.Itoa(v) + "]"
		case string:
			if out != "" {
				out += "."
			}
			out += v
		}
	}
	return out
}

func quote(s string) string { return strconv.Quote(s) }
