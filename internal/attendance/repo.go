package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// Repository persists students and attendance logs in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const studentCols = `id, username, full_name, email, role, course, phone, address, mentor_name, image, is_active, created_at`

func scanStudent(row interface{ Scan(...any) error }) (model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.Username, &s.FullName, &s.Email, &s.Role, &s.Course,
		&s.Phone, &s.Address, &s.MentorName, &s.Image, &s.IsActive, &s.CreatedAt)
	return s, err
}

// CreateStudent inserts a new account with a pre-hashed password.
func (r *Repository) CreateStudent(ctx context.Context, s model.Student, passwordHash string) (model.Student, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Role == "" {
		s.Role = model.RoleStudent
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, username, full_name, email, hashed_password, role, course, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE)
		RETURNING created_at
	`, s.ID, s.Username, s.FullName, s.Email, passwordHash, s.Role, s.Course)
	if err := row.Scan(&s.CreatedAt); err != nil {
		return model.Student{}, err
	}
	s.IsActive = true
	return s, nil
}

// StudentByUsername returns the account and its password hash, or nil when
// no such username exists.
func (r *Repository) StudentByUsername(ctx context.Context, username string) (*model.Student, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+studentCols+`, hashed_password FROM students WHERE username = $1
	`, username)
	var s model.Student
	var hash string
	err := row.Scan(&s.ID, &s.Username, &s.FullName, &s.Email, &s.Role, &s.Course,
		&s.Phone, &s.Address, &s.MentorName, &s.Image, &s.IsActive, &s.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return &s, hash, nil
}

// StudentByEmail returns the account for an email, or nil.
func (r *Repository) StudentByEmail(ctx context.Context, email string) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE email = $1`, email)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// StudentByID returns the account by primary key, or nil.
func (r *Repository) StudentByID(ctx context.Context, id string) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+studentCols+` FROM students WHERE id = $1`, id)
	s, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListStudents returns all student-role accounts ordered by name.
func (r *Repository) ListStudents(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+studentCols+` FROM students WHERE role = 'student' ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ProfileUpdate carries the editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	FullName   *string
	Phone      *string
	Address    *string
	Course     *string
	MentorName *string
}

// UpdateProfile applies the non-nil fields of upd to a student row.
func (r *Repository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE students SET
			full_name   = COALESCE($2, full_name),
			phone       = COALESCE($3, phone),
			address     = COALESCE($4, address),
			course      = COALESCE($5, course),
			mentor_name = COALESCE($6, mentor_name)
		WHERE id = $1
	`, id, upd.FullName, upd.Phone, upd.Address, upd.Course, upd.MentorName)
	return err
}

// SetStudentImage stores the public photo URL.
func (r *Repository) SetStudentImage(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET image = $2 WHERE id = $1`, id, url)
	return err
}

// SetStudentActive toggles the account.
func (r *Repository) SetStudentActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET is_active = $2 WHERE id = $1`, id, active)
	return err
}

// UpdatePasswordByEmail replaces the stored hash after a password reset.
func (r *Repository) UpdatePasswordByEmail(ctx context.Context, email, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE students SET hashed_password = $2 WHERE email = $1`, email, hash)
	return err
}

const logCols = `id, student_id, date, status, check_in_time, check_out_time, duration_hours, tasks, doubts, proof_url, remarks`

func scanLog(row interface{ Scan(...any) error }) (model.AttendanceLog, error) {
	var l model.AttendanceLog
	var in, out sql.NullTime
	err := row.Scan(&l.ID, &l.StudentID, &l.Date, &l.Status, &in, &out,
		&l.DurationHours, &l.Tasks, &l.Doubts, &l.ProofURL, &l.Remarks)
	if in.Valid {
		l.CheckInTime = &in.Time
	}
	if out.Valid {
		l.CheckOutTime = &out.Time
	}
	return l, err
}

// LogForDay returns the first log for a student within [start, end), or nil.
// There should be at most one; ordering makes duplicates deterministic.
func (r *Repository) LogForDay(ctx context.Context, studentID string, start, end time.Time) (*model.AttendanceLog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+logCols+` FROM attendance
		WHERE student_id = $1 AND date >= $2 AND date < $3
		ORDER BY date ASC
		LIMIT 1
	`, studentID, start, end)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertLog writes a new attendance record.
func (r *Repository) InsertLog(ctx context.Context, l model.AttendanceLog) (model.AttendanceLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Remarks == "" {
		l.Remarks = "-"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (id, student_id, date, status, check_in_time, check_out_time, duration_hours, tasks, doubts, proof_url, remarks)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, l.ID, l.StudentID, l.Date, l.Status, l.CheckInTime, l.CheckOutTime,
		l.DurationHours, l.Tasks, l.Doubts, l.ProofURL, l.Remarks)
	if err != nil {
		return model.AttendanceLog{}, err
	}
	return l, nil
}

// CloseLog completes a session with the checkout report.
func (r *Repository) CloseLog(ctx context.Context, id string, out time.Time, tasks, proofURL, doubts string, hours float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance
		SET check_out_time = $2, status = $3, tasks = $4, proof_url = $5, doubts = $6, duration_hours = $7
		WHERE id = $1
	`, id, out, model.StatusCompleted, tasks, proofURL, doubts, hours)
	return err
}

// SetRemarks attaches or replaces the remark annotation on a log.
func (r *Repository) SetRemarks(ctx context.Context, id, remarks string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE attendance SET remarks = $2 WHERE id = $1`, id, remarks)
	return err
}

// HistoryByStudent returns up to limit logs, newest first.
func (r *Repository) HistoryByStudent(ctx context.Context, studentID string, limit int) ([]model.AttendanceLog, error) {
	if limit <= 0 {
		limit = 365
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logCols+` FROM attendance
		WHERE student_id = $1
		ORDER BY date DESC
		LIMIT $2
	`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttendanceLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LogsBetween returns every log dated within [start, end), all students.
func (r *Repository) LogsBetween(ctx context.Context, start, end time.Time) ([]model.AttendanceLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+logCols+` FROM attendance
		WHERE date >= $1 AND date < $2
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttendanceLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// SessionContact identifies a student with a session still open today; the
// reminder sweep mails these.
type SessionContact struct {
	Email    string
	FullName string
}

// OpenSessionContacts lists students whose log in [start, end) is still
// In Progress.
func (r *Repository) OpenSessionContacts(ctx context.Context, start, end time.Time) ([]SessionContact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.email, s.full_name
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		WHERE a.date >= $1 AND a.date < $2 AND a.status = $3 AND s.email <> ''
	`, start, end, model.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SessionContact
	for rows.Next() {
		var c SessionContact
		if err := rows.Scan(&c.Email, &c.FullName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ForceCloseOpenSessions flips every In Progress log in [start, end) to the
// forgot-checkout status with zero credited hours. Returns rows affected.
func (r *Repository) ForceCloseOpenSessions(ctx context.Context, start, end, closedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE attendance
		SET status = $4, check_out_time = $3, tasks = 'System Auto-Close: Student forgot to checkout.', duration_hours = 0
		WHERE date >= $1 AND date < $2 AND status = $5
	`, start, end, closedAt, model.StatusForgot+" (Auto)", model.StatusInProgress)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
