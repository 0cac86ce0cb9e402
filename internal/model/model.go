package model

import "time"

// Attendance statuses as stored and served over the wire. The auto-close
// worker appends a suffix to StatusForgot, so consumers match it by
// substring, not equality.
const (
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusForgot     = "Forgot Checkout"
	StatusAbsent     = "Absent"
)

// Roles a student account can hold.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Student is a registered account. Image holds the public URL of the
// profile photo, empty until one is uploaded.
type Student struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Course     string    `json:"course"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	MentorName string    `json:"mentor_name"`
	Image      string    `json:"image"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttendanceLog is one day's session record. Check-out fields stay nil while
// the session is in progress. Remarks default to "-" and are the only field
// mutated after the fact.
type AttendanceLog struct {
	ID            string     `json:"id"`
	StudentID     string     `json:"student_id"`
	Date          time.Time  `json:"date"`
	Status        string     `json:"status"`
	CheckInTime   *time.Time `json:"check_in_time"`
	CheckOutTime  *time.Time `json:"check_out_time"`
	DurationHours float64    `json:"duration_hours"`
	Tasks         string     `json:"tasks"`
	Doubts        string     `json:"doubts"`
	ProofURL      string     `json:"proof_url"`
	Remarks       string     `json:"remarks"`
}

// PeriodStats aggregates hours over one reporting window.
type PeriodStats struct {
	Hours       float64 `json:"hours"`
	DaysPresent int     `json:"days_present,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// AllTimeStats covers the full history.
type AllTimeStats struct {
	TotalHours float64 `json:"total_hours"`
	TotalDays  int     `json:"total_days"`
}

// LifetimeStats backs the profile page counters.
type LifetimeStats struct {
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

// Performance is the analytics payload for one student.
type Performance struct {
	Today    PeriodStats   `json:"today"`
	Week     PeriodStats   `json:"week"`
	Month    PeriodStats   `json:"month"`
	AllTime  AllTimeStats  `json:"all_time"`
	Lifetime LifetimeStats `json:"lifetime"`
}

// DailyReportRow is one student's line in the admin daily report. Times are
// pre-formatted for display; "-" marks missing values.
type DailyReportRow struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Image     string `json:"image"`
	Status    string `json:"status"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Duration  string `json:"duration"`
	Tasks     string `json:"tasks"`
	ProofURL  string `json:"proof_url"`
	Remarks   string `json:"remarks"`
}
