package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Tariqai1/student-productivity-app/internal/model"
)

// LoginResult is the credential exchange response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

// Login exchanges form-encoded credentials for a bearer token. The caller
// is responsible for persisting the token.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var res LoginResult
	err := c.postForm(ctx, "/auth/login", form, &res)
	return res, err
}

// RegisterRequest creates a new student account.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Course   string `json:"course,omitempty"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.postJSON(ctx, "/auth/register", req, nil)
}

// ForgotPassword requests a reset link and returns the server's message,
// which is identical whether or not the email is registered.
func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	err := c.postJSON(ctx, "/auth/forgot-password", map[string]string{"email": email}, &res)
	return res.Message, err
}

func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.postJSON(ctx, "/auth/reset-password", body, nil)
}

// Me fetches the caller's profile, the whoami call behind session bootstrap.
func (c *Client) Me(ctx context.Context) (model.Student, error) {
	var student model.Student
	err := c.get(ctx, "/students/me", &student)
	return student, err
}

// ProfileUpdate holds the fields PUT /students/me accepts. Nil fields are
// left unchanged.
type ProfileUpdate struct {
	FullName   *string `json:"full_name,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	Course     *string `json:"course,omitempty"`
	MentorName *string `json:"mentor_name,omitempty"`
}

func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) error {
	return c.putJSON(ctx, "/students/me", upd, nil)
}

// UploadPhoto stores a profile image and returns its public URL.
func (c *Client) UploadPhoto(ctx context.Context, data []byte, filename string) (string, error) {
	var res struct {
		ImageURL string `json:"image_url"`
	}
	err := c.postFile(ctx, "/students/upload-photo", data, filename, &res)
	return res.ImageURL, err
}

// UpsertRemark annotates one of the caller's days (date is YYYY-MM-DD).
func (c *Client) UpsertRemark(ctx context.Context, date, remark string) error {
	body := map[string]string{"date": date, "remark": remark}
	return c.postJSON(ctx, "/students/remark", body, nil)
}

// CheckInResult reports the server-side check-in time, pre-formatted.
type CheckInResult struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

func (c *Client) CheckIn(ctx context.Context) (CheckInResult, error) {
	var res CheckInResult
	err := c.do(ctx, http.MethodPost, "/attendance/check-in", nil, "", &res)
	return res, err
}

// CheckOutResult reports the session length, pre-formatted.
type CheckOutResult struct {
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

func (c *Client) CheckOut(ctx context.Context, tasks, proofURL, doubts string) (CheckOutResult, error) {
	body := map[string]string{"tasks": tasks, "proof_url": proofURL, "doubts": doubts}
	var res CheckOutResult
	err := c.postJSON(ctx, "/attendance/check-out", body, &res)
	return res, err
}

// UploadProof stores a work-proof file and returns its public URL.
func (c *Client) UploadProof(ctx context.Context, data []byte, filename string) (string, error) {
	var res struct {
		URL string `json:"url"`
	}
	err := c.postFile(ctx, "/attendance/upload-proof", data, filename, &res)
	return res.URL, err
}

// MyHistory returns the caller's attendance records, newest first.
func (c *Client) MyHistory(ctx context.Context) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := c.get(ctx, "/attendance/my-history", &logs)
	return logs, err
}

func (c *Client) MyPerformance(ctx context.Context) (model.Performance, error) {
	var perf model.Performance
	err := c.get(ctx, "/analytics/my-performance", &perf)
	return perf, err
}

func (c *Client) StudentStats(ctx context.Context, studentID string) (model.Performance, error) {
	var perf model.Performance
	err := c.get(ctx, "/analytics/admin/student-stats/"+url.PathEscape(studentID), &perf)
	return perf, err
}

// DailyReport returns the admin roster report for date (YYYY-MM-DD).
func (c *Client) DailyReport(ctx context.Context, date string) ([]model.DailyReportRow, error) {
	var rows []model.DailyReportRow
	err := c.get(ctx, "/admin/daily-report?date="+url.QueryEscape(date), &rows)
	return rows, err
}

func (c *Client) Students(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := c.get(ctx, "/admin/students", &students)
	return students, err
}

func (c *Client) StudentHistory(ctx context.Context, studentID string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := c.get(ctx, "/admin/attendance/"+url.PathEscape(studentID), &logs)
	return logs, err
}

func (c *Client) AdminRemark(ctx context.Context, studentID, date, remark string) error {
	body := map[string]string{"student_id": studentID, "date": date, "remark": remark}
	return c.postJSON(ctx, "/admin/student-remark", body, nil)
}

// DownloadDailyReport fetches the daily CSV export.
func (c *Client) DownloadDailyReport(ctx context.Context, date string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/admin/download-daily-report?date="+url.QueryEscape(date), nil, "")
}

// DownloadWeeklyReport fetches the trailing 7-day CSV export. An empty date
// means today.
func (c *Client) DownloadWeeklyReport(ctx context.Context, date string) ([]byte, error) {
	path := "/admin/download-weekly-report"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	return c.doRaw(ctx, http.MethodGet, path, nil, "")
}
