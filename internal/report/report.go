// Package report builds the admin roster views and their CSV exports.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/Tariqai1/student-productivity-app/internal/model"
	"github.com/Tariqai1/student-productivity-app/internal/timeline"
)

// BuildDaily joins the roster against one day's logs. Every student gets a
// row; students without a log show as Absent with "-" placeholders.
func BuildDaily(students []model.Student, logs []model.AttendanceLog, loc *time.Location) []model.DailyReportRow {
	byStudent := make(map[string]model.AttendanceLog, len(logs))
	for _, l := range logs {
		if _, ok := byStudent[l.StudentID]; !ok {
			byStudent[l.StudentID] = l
		}
	}

	rows := make([]model.DailyReportRow, 0, len(students))
	for _, s := range students {
		row := model.DailyReportRow{
			StudentID: s.ID,
			Name:      s.FullName,
			Username:  s.Username,
			Image:     s.Image,
			Status:    model.StatusAbsent,
			CheckIn:   "-",
			CheckOut:  "-",
			Duration:  "-",
			Tasks:     "-",
			Remarks:   "-",
		}
		if l, ok := byStudent[s.ID]; ok {
			row.Status = l.Status
			if l.Remarks != "" {
				row.Remarks = l.Remarks
			}
			if l.CheckInTime != nil {
				row.CheckIn = l.CheckInTime.In(loc).Format("03:04 PM")
			}
			if l.CheckOutTime != nil {
				row.CheckOut = l.CheckOutTime.In(loc).Format("03:04 PM")
			}
			row.Duration = fmt.Sprintf("%g hrs", l.DurationHours)
			if l.Tasks != "" {
				row.Tasks = l.Tasks
			}
			row.ProofURL = l.ProofURL
		}
		rows = append(rows, row)
	}
	return rows
}

// DailyCSV renders the daily report as a CSV attachment body.
func DailyCSV(date string, rows []model.DailyReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Student Name", "Username", "Date", "Status",
		"Check In", "Check Out", "Duration", "Task Details",
		"Proof Link", "Reason/Remarks",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range rows {
		proof := r.ProofURL
		if proof == "" {
			proof = "N/A"
		}
		rec := []string{r.Name, r.Username, date, r.Status, r.CheckIn, r.CheckOut, r.Duration, r.Tasks, proof, r.Remarks}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// WeeklyRow is one student's aggregate over the trailing 7 days.
type WeeklyRow struct {
	Name        string
	Username    string
	TotalHours  float64
	DaysPresent int
	Days        []timeline.DaySummary
}

// BuildWeekly aggregates each student's 7-day window ending on "now" from
// full per-student histories.
func BuildWeekly(students []model.Student, histories map[string][]model.AttendanceLog, now time.Time) []WeeklyRow {
	rows := make([]WeeklyRow, 0, len(students))
	for _, s := range students {
		week := timeline.Week(histories[s.ID], now)
		row := WeeklyRow{Name: s.FullName, Username: s.Username, Days: week}
		for _, d := range week {
			row.TotalHours += d.Hours
			if d.Hours > 0 {
				row.DaysPresent++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// WeeklyCSV renders the weekly aggregate: one line per student with the
// per-day hour columns, oldest day first.
func WeeklyCSV(rows []WeeklyRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Student Name", "Username"}
	if len(rows) > 0 {
		for _, d := range rows[0].Days {
			header = append(header, d.Label+" "+d.Date)
		}
	}
	header = append(header, "Total Hours", "Days Present")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range rows {
		rec := []string{r.Name, r.Username}
		for _, d := range r.Days {
			rec = append(rec, fmt.Sprintf("%g", d.Hours))
		}
		rec = append(rec, fmt.Sprintf("%.2f", r.TotalHours), fmt.Sprintf("%d", r.DaysPresent))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
