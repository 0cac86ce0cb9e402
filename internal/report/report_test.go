package report

import (
	"strings"
	"testing"
	"time"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

func TestBuildDaily_AbsentDefaults(t *testing.T) {
	students := []model.Student{
		{ID: "a", FullName: "Asha Rao", Username: "asha"},
		{ID: "b", FullName: "Ben Dey", Username: "ben"},
	}
	in := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	out := in.Add(4 * time.Hour)
	logs := []model.AttendanceLog{
		{StudentID: "a", Date: in, Status: model.StatusCompleted, CheckInTime: &in, CheckOutTime: &out, DurationHours: 4, Tasks: "Revised algebra", Remarks: "-"},
	}

	rows := BuildDaily(students, logs, time.UTC)
	if len(rows) != 2 {
		t.Fatalf("expected a row per student, got %d", len(rows))
	}

	if rows[0].Status != model.StatusCompleted || rows[0].CheckIn != "09:15 AM" || rows[0].Duration != "4 hrs" {
		t.Errorf("present row wrong: %+v", rows[0])
	}
	if rows[1].Status != model.StatusAbsent || rows[1].CheckIn != "-" || rows[1].Tasks != "-" {
		t.Errorf("absent row should use placeholders: %+v", rows[1])
	}
}

func TestBuildDaily_FirstLogWinsOnDuplicates(t *testing.T) {
	students := []model.Student{{ID: "a", FullName: "Asha Rao", Username: "asha"}}
	d := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	logs := []model.AttendanceLog{
		{StudentID: "a", Date: d, Status: model.StatusCompleted},
		{StudentID: "a", Date: d.Add(time.Hour), Status: model.StatusInProgress},
	}
	rows := BuildDaily(students, logs, time.UTC)
	if rows[0].Status != model.StatusCompleted {
		t.Errorf("expected first log to win, got %q", rows[0].Status)
	}
}

func TestDailyCSV_HeaderAndPlaceholders(t *testing.T) {
	rows := []model.DailyReportRow{
		{Name: "Asha Rao", Username: "asha", Status: model.StatusAbsent, CheckIn: "-", CheckOut: "-", Duration: "-", Tasks: "-", Remarks: "Sick"},
	}
	data, err := DailyCSV("2026-03-10", rows)
	if err != nil {
		t.Fatalf("csv failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Student Name,Username,Date,Status") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "N/A") {
		t.Errorf("empty proof should render N/A: %s", lines[1])
	}
	if !strings.Contains(lines[1], "Sick") {
		t.Errorf("remark missing: %s", lines[1])
	}
}

func TestBuildWeekly_Aggregates(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	students := []model.Student{{ID: "a", FullName: "Asha Rao", Username: "asha"}}
	histories := map[string][]model.AttendanceLog{
		"a": {
			{StudentID: "a", Date: now, Status: model.StatusCompleted, DurationHours: 4},
			{StudentID: "a", Date: now.AddDate(0, 0, -2), Status: model.StatusCompleted, DurationHours: 2.5},
			{StudentID: "a", Date: now.AddDate(0, 0, -10), Status: model.StatusCompleted, DurationHours: 9},
		},
	}

	rows := BuildWeekly(students, histories, now)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0].TotalHours != 6.5 || rows[0].DaysPresent != 2 {
		t.Errorf("expected 6.5h over 2 days inside the window, got %+v", rows[0])
	}
	if len(rows[0].Days) != 7 {
		t.Errorf("expected 7 day columns, got %d", len(rows[0].Days))
	}
}

func TestWeeklyCSV_Shape(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
	students := []model.Student{{ID: "a", FullName: "Asha Rao", Username: "asha"}}
	rows := BuildWeekly(students, map[string][]model.AttendanceLog{}, now)

	data, err := WeeklyCSV(rows)
	if err != nil {
		t.Fatalf("csv failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d", len(lines))
	}
	if got := strings.Count(lines[0], ",") + 1; got != 11 {
		t.Errorf("expected 11 columns (2 id + 7 days + 2 totals), got %d", got)
	}
}
