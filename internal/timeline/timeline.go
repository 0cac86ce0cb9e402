// Package timeline derives UI-facing day state from attendance history.
// Everything here is a pure function of (history, now); callers pass "now"
// already set to the viewer's location so day boundaries follow the local
// calendar, never UTC.
package timeline

import (
	"math"
	"strings"
	"time"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// Status is the single resolved state for the current day. It selects which
// action the UI offers: start a session, show the check-out form, or show a
// completed / forgot-checkout notice.
type Status int

const (
	StatusNone Status = iota
	StatusInProgress
	StatusCompleted
	StatusForgotCheckout
)

// String returns the display form of the status.
func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return model.StatusInProgress
	case StatusCompleted:
		return model.StatusCompleted
	case StatusForgotCheckout:
		return model.StatusForgot
	default:
		return "No Session"
	}
}

// ResolveToday scans history for the first record dated today and maps its
// status. History order is taken as-is: the backend should hold at most one
// record per day, but duplicates are tolerated by picking the first match.
// The auto-close job writes statuses like "Forgot Checkout (Auto)", so the
// forgot case matches by substring.
func ResolveToday(logs []model.AttendanceLog, now time.Time) Status {
	for _, l := range logs {
		if !sameDay(l.Date, now) {
			continue
		}
		switch {
		case l.Status == model.StatusInProgress:
			return StatusInProgress
		case l.Status == model.StatusCompleted:
			return StatusCompleted
		case strings.Contains(l.Status, "Forgot"):
			return StatusForgotCheckout
		default:
			// Absent and anything unrecognised: no actionable session.
			return StatusNone
		}
	}
	return StatusNone
}

// DaySummary is one bar of the weekly chart / one tile of the calendar strip.
type DaySummary struct {
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Status string  `json:"status"`
}

// Week builds the rolling 7-day view: the 6 days before today through today,
// oldest first. Days without a record come back as zero-hour "Absent"
// entries so the sequence is always exactly 7 long. The slice is rebuilt on
// every call; nothing is cached.
func Week(logs []model.AttendanceLog, now time.Time) []DaySummary {
	out := make([]DaySummary, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		entry := DaySummary{
			Label:  day.Format("Mon"),
			Date:   day.Format("Jan 02"),
			Status: model.StatusAbsent,
		}
		for _, l := range logs {
			if sameDay(l.Date, day) {
				entry.Hours = l.DurationHours
				entry.Status = l.Status
				break
			}
		}
		out = append(out, entry)
	}
	return out
}

// Session durations above this are treated as clock skew and discarded.
const maxSessionSeconds = 65000

// Performance aggregates history into the analytics payload: hours and
// presence counts for today, the Monday-started week, the calendar month,
// and all time. An open session contributes live hours only when it started
// today; stale open sessions count for nothing.
func Performance(logs []model.AttendanceLog, now time.Time) model.Performance {
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Monday-started week.
	weekday := int(startOfDay.Weekday()+6) % 7
	startOfWeek := startOfDay.AddDate(0, 0, -weekday)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	perf := model.Performance{
		Today:    model.PeriodStats{Status: model.StatusAbsent},
		Lifetime: model.LifetimeStats{Sessions: len(logs)},
	}

	daysWeek := map[string]bool{}
	daysMonth := map[string]bool{}
	daysAll := map[string]bool{}

	for _, l := range logs {
		checkIn := l.CheckInTime
		if checkIn == nil {
			if l.Date.IsZero() {
				continue
			}
			d := l.Date
			checkIn = &d
		}
		in := checkIn.In(now.Location())

		var diff float64
		activeNow := false
		if l.CheckOutTime != nil {
			diff = l.CheckOutTime.Sub(in).Seconds()
		} else if sameDay(in, now) {
			diff = now.Sub(in).Seconds()
			activeNow = true
		}

		var duration float64
		if diff > 0 && diff < maxSessionSeconds {
			duration = round2(diff / 3600)
		}

		perf.AllTime.TotalHours += duration
		perf.Lifetime.Hours += duration
		if duration > 0 || activeNow {
			daysAll[dayKey(in)] = true
		}

		if !in.Before(startOfDay) {
			perf.Today.Hours += duration
			if activeNow {
				perf.Today.Status = "Active Now"
			} else if perf.Today.Status != "Active Now" {
				if l.Status != "" {
					perf.Today.Status = l.Status
				} else {
					perf.Today.Status = "Present"
				}
			}
		}
		if !in.Before(startOfWeek) {
			perf.Week.Hours += duration
			if duration > 0 {
				daysWeek[dayKey(in)] = true
			}
		}
		if !in.Before(startOfMonth) {
			perf.Month.Hours += duration
			if duration > 0 {
				daysMonth[dayKey(in)] = true
			}
		}
	}

	perf.Week.DaysPresent = len(daysWeek)
	perf.Month.DaysPresent = len(daysMonth)
	perf.AllTime.TotalDays = len(daysAll)

	perf.Today.Hours = round2(perf.Today.Hours)
	perf.Week.Hours = round2(perf.Week.Hours)
	perf.Month.Hours = round2(perf.Month.Hours)
	perf.AllTime.TotalHours = round2(perf.AllTime.TotalHours)
	perf.Lifetime.Hours = round2(perf.Lifetime.Hours)

	return perf
}

// sameDay reports calendar-day equality in ref's location. The record's
// timestamp is converted first so a session started at 23:50 in one offset
// still lands on the viewer's local date.
func sameDay(t, ref time.Time) bool {
	t = t.In(ref.Location())
	return t.Year() == ref.Year() && t.Month() == ref.Month() && t.Day() == ref.Day()
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
