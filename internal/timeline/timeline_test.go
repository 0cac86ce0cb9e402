package timeline

import (
	"testing"
	"time"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// logOn builds a history record dated at the given time with a status.
func logOn(date time.Time, status string, hours float64) model.AttendanceLog {
	return model.AttendanceLog{
		ID:            "log-" + date.Format("2006-01-02"),
		Date:          date,
		Status:        status,
		DurationHours: hours,
	}
}

func TestResolveToday_EmptyHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	if got := ResolveToday(nil, now); got != StatusNone {
		t.Errorf("expected StatusNone for empty history, got %v", got)
	}
}

func TestResolveToday_MapsStatuses(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	cases := []struct {
		status string
		want   Status
	}{
		{model.StatusInProgress, StatusInProgress},
		{model.StatusCompleted, StatusCompleted},
		{"Forgot Checkout (Auto)", StatusForgotCheckout}, // substring match
		{model.StatusForgot, StatusForgotCheckout},
		{model.StatusAbsent, StatusNone},
		{"Something Else", StatusNone},
	}
	for _, tc := range cases {
		history := []model.AttendanceLog{logOn(now, tc.status, 1)}
		if got := ResolveToday(history, now); got != tc.want {
			t.Errorf("status %q: expected %v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestResolveToday_NoRecordToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	history := []model.AttendanceLog{
		logOn(now.AddDate(0, 0, -1), model.StatusCompleted, 5),
		logOn(now.AddDate(0, 0, -3), model.StatusInProgress, 0),
	}
	if got := ResolveToday(history, now); got != StatusNone {
		t.Errorf("expected StatusNone when no record falls on today, got %v", got)
	}
}

// A record stored near midnight in a different offset must still match
// "today" by the viewer's local calendar date.
func TestResolveToday_LocalCalendarDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 23:50 IST on March 9 is 18:20 UTC March 9; viewed at 00:10 IST
	// March 10 it is yesterday, viewed at 23:55 IST March 9 it is today.
	record := logOn(time.Date(2026, 3, 9, 18, 20, 0, 0, time.UTC), model.StatusInProgress, 0)

	sameEvening := time.Date(2026, 3, 9, 23, 55, 0, 0, ist)
	if got := ResolveToday([]model.AttendanceLog{record}, sameEvening); got != StatusInProgress {
		t.Errorf("expected InProgress before local midnight, got %v", got)
	}

	afterMidnight := time.Date(2026, 3, 10, 0, 10, 0, 0, ist)
	if got := ResolveToday([]model.AttendanceLog{record}, afterMidnight); got != StatusNone {
		t.Errorf("expected None after local midnight, got %v", got)
	}
}

// Duplicate same-day rows are order-dependent: the first match wins.
func TestResolveToday_FirstMatchWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	history := []model.AttendanceLog{
		logOn(now.Add(-2*time.Hour), model.StatusCompleted, 2),
		logOn(now.Add(-1*time.Hour), model.StatusInProgress, 0),
	}
	if got := ResolveToday(history, now); got != StatusCompleted {
		t.Errorf("expected first matching record to win, got %v", got)
	}
}

func TestResolveToday_Pure(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	history := []model.AttendanceLog{logOn(now, model.StatusInProgress, 0)}
	first := ResolveToday(history, now)
	for i := 0; i < 10; i++ {
		if got := ResolveToday(history, now); got != first {
			t.Fatalf("resolver not pure: call %d returned %v, first returned %v", i, got, first)
		}
	}
}

func TestWeek_AlwaysSevenOldestFirst(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC) // a Tuesday
	week := Week(nil, now)

	if len(week) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(week))
	}
	if week[0].Label != "Wed" || week[6].Label != "Tue" {
		t.Errorf("expected Wed..Tue oldest-first, got %s..%s", week[0].Label, week[6].Label)
	}
	if week[6].Date != now.Format("Jan 02") {
		t.Errorf("last entry should be today, got %s", week[6].Date)
	}
	for i, d := range week {
		if d.Hours != 0 || d.Status != model.StatusAbsent {
			t.Errorf("entry %d: missing day should default to 0h Absent, got %+v", i, d)
		}
	}
}

func TestWeek_FillsRecordedDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	history := []model.AttendanceLog{
		logOn(now, model.StatusInProgress, 0),
		logOn(now.AddDate(0, 0, -2), model.StatusCompleted, 6.5),
		logOn(now.AddDate(0, 0, -9), model.StatusCompleted, 8), // outside window
	}
	week := Week(history, now)

	if week[6].Status != model.StatusInProgress {
		t.Errorf("today: expected In Progress, got %s", week[6].Status)
	}
	if week[4].Hours != 6.5 || week[4].Status != model.StatusCompleted {
		t.Errorf("two days ago: expected 6.5h Completed, got %+v", week[4])
	}
	if week[0].Status != model.StatusAbsent {
		t.Errorf("day outside window must not leak in, got %+v", week[0])
	}
}

func TestPerformance_CompletedSessions(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC) // Tuesday
	in1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	out1 := in1.Add(4 * time.Hour)
	in2 := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	out2 := in2.Add(2*time.Hour + 30*time.Minute)

	history := []model.AttendanceLog{
		{Date: in1, CheckInTime: &in1, CheckOutTime: &out1, Status: model.StatusCompleted},
		{Date: in2, CheckInTime: &in2, CheckOutTime: &out2, Status: model.StatusCompleted},
	}
	perf := Performance(history, now)

	if perf.Today.Hours != 4 {
		t.Errorf("today hours: expected 4, got %v", perf.Today.Hours)
	}
	if perf.Week.Hours != 6.5 || perf.Week.DaysPresent != 2 {
		t.Errorf("week: expected 6.5h over 2 days, got %+v", perf.Week)
	}
	if perf.AllTime.TotalHours != 6.5 || perf.AllTime.TotalDays != 2 {
		t.Errorf("all time: expected 6.5h over 2 days, got %+v", perf.AllTime)
	}
	if perf.Lifetime.Sessions != 2 {
		t.Errorf("lifetime sessions: expected 2, got %d", perf.Lifetime.Sessions)
	}
	if perf.Today.Status != model.StatusCompleted {
		t.Errorf("today status: expected Completed, got %q", perf.Today.Status)
	}
}

func TestPerformance_OpenSessionCountsLiveOnlyToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	stale := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)

	history := []model.AttendanceLog{
		{Date: today, CheckInTime: &today, Status: model.StatusInProgress},
		{Date: stale, CheckInTime: &stale, Status: model.StatusInProgress},
	}
	perf := Performance(history, now)

	if perf.Today.Hours != 2 {
		t.Errorf("open session today should count live hours, got %v", perf.Today.Hours)
	}
	if perf.Today.Status != "Active Now" {
		t.Errorf("expected Active Now status, got %q", perf.Today.Status)
	}
	// The stale open session contributes nothing.
	if perf.AllTime.TotalHours != 2 {
		t.Errorf("stale open session must not add hours, got %v", perf.AllTime.TotalHours)
	}
}

func TestPerformance_DiscardsImplausibleDurations(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	in := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := in.Add(30 * time.Hour) // beyond the sanity window

	history := []model.AttendanceLog{
		{Date: in, CheckInTime: &in, CheckOutTime: &out, Status: model.StatusCompleted},
	}
	perf := Performance(history, now)
	if perf.AllTime.TotalHours != 0 {
		t.Errorf("implausible duration should be discarded, got %v hours", perf.AllTime.TotalHours)
	}
}
