package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// Rule violations surfaced to callers with user-facing messages.
var (
	ErrAlreadyCheckedIn = errors.New("You have already checked in today! Discipline is key - one focused session per day.")
	ErrNoActiveSession  = errors.New("No active session found for today.")
	ErrAlreadyCompleted = errors.New("Session already completed!")
	ErrTasksTooShort    = errors.New("Please enter a valid task description.")
)

// Store is the persistence surface the service needs.
type Store interface {
	LogForDay(ctx context.Context, studentID string, start, end time.Time) (*model.AttendanceLog, error)
	InsertLog(ctx context.Context, l model.AttendanceLog) (model.AttendanceLog, error)
	CloseLog(ctx context.Context, id string, out time.Time, tasks, proofURL, doubts string, hours float64) error
	SetRemarks(ctx context.Context, id, remarks string) error
	HistoryByStudent(ctx context.Context, studentID string, limit int) ([]model.AttendanceLog, error)
}

// Service enforces the one-session-per-day attendance rules. All day
// boundaries are computed in loc, matching the deployment's home timezone.
type Service struct {
	store Store
	loc   *time.Location
}

// NewService creates a service backed by a store.
func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, loc: loc}
}

// DayWindow returns the [start, end) bounds of t's calendar day in loc.
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// CheckIn opens today's session. Strictly once per day.
func (s *Service) CheckIn(ctx context.Context, studentID string, now time.Time) (model.AttendanceLog, error) {
	start, end := DayWindow(now, s.loc)
	existing, err := s.store.LogForDay(ctx, studentID, start, end)
	if err != nil {
		return model.AttendanceLog{}, fmt.Errorf("check existing log: %w", err)
	}
	if existing != nil {
		return model.AttendanceLog{}, ErrAlreadyCheckedIn
	}

	checkIn := now.In(s.loc).Truncate(time.Second)
	return s.store.InsertLog(ctx, model.AttendanceLog{
		StudentID:   studentID,
		Date:        checkIn,
		Status:      model.StatusInProgress,
		CheckInTime: &checkIn,
	})
}

// CheckOut completes today's session with the task report and returns the
// credited hours.
func (s *Service) CheckOut(ctx context.Context, studentID, tasks, proofURL, doubts string, now time.Time) (float64, error) {
	if len(tasks) < 5 {
		return 0, ErrTasksTooShort
	}

	start, end := DayWindow(now, s.loc)
	entry, err := s.store.LogForDay(ctx, studentID, start, end)
	if err != nil {
		return 0, fmt.Errorf("find today's log: %w", err)
	}
	if entry == nil {
		return 0, ErrNoActiveSession
	}
	if entry.Status == model.StatusCompleted {
		return 0, ErrAlreadyCompleted
	}

	checkIn := entry.Date
	if entry.CheckInTime != nil {
		checkIn = *entry.CheckInTime
	}
	out := now.In(s.loc).Truncate(time.Second)
	hours := math.Round(out.Sub(checkIn).Hours()*100) / 100
	if hours < 0 {
		hours = 0
	}

	if err := s.store.CloseLog(ctx, entry.ID, out, tasks, proofURL, doubts, hours); err != nil {
		return 0, fmt.Errorf("close log: %w", err)
	}
	return hours, nil
}

// History returns up to a year of logs, newest first.
func (s *Service) History(ctx context.Context, studentID string) ([]model.AttendanceLog, error) {
	return s.store.HistoryByStudent(ctx, studentID, 365)
}

// UpsertRemark attaches a remark to the log on the given date, creating a
// noon-dated Absent record when the student has none. date is "YYYY-MM-DD".
func (s *Service) UpsertRemark(ctx context.Context, studentID, date, remark string) error {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	start, end := DayWindow(day, s.loc)

	entry, err := s.store.LogForDay(ctx, studentID, start, end)
	if err != nil {
		return fmt.Errorf("find log for %s: %w", date, err)
	}
	if entry != nil {
		return s.store.SetRemarks(ctx, entry.ID, remark)
	}

	_, err = s.store.InsertLog(ctx, model.AttendanceLog{
		StudentID: studentID,
		Date:      start.Add(12 * time.Hour),
		Status:    model.StatusAbsent,
		Remarks:   remark,
	})
	return err
}
