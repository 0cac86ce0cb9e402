package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tariqai1/student-productivity-app/internal/attendance"
	"github.com/Tariqai1/student-productivity-app/internal/model"
	"github.com/Tariqai1/student-productivity-app/internal/report"
)

// parseReportDate resolves the ?date= query (YYYY-MM-DD) in the server's
// timezone, defaulting to today when allowEmpty is set.
func (s *Server) parseReportDate(c *gin.Context, allowEmpty bool) (time.Time, string, bool) {
	raw := c.Query("date")
	if raw == "" {
		if !allowEmpty {
			detail(c, http.StatusBadRequest, "date query parameter required (YYYY-MM-DD)")
			return time.Time{}, "", false
		}
		now := time.Now().In(s.loc)
		return now, now.Format("2006-01-02"), true
	}
	day, err := time.ParseInLocation("2006-01-02", raw, s.loc)
	if err != nil {
		detail(c, http.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
		return time.Time{}, "", false
	}
	return day, raw, true
}

func (s *Server) buildDailyReport(c *gin.Context, day time.Time) ([]model.DailyReportRow, bool) {
	ctx := c.Request.Context()
	start, end := attendance.DayWindow(day, s.loc)

	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		detail(c, http.StatusInternalServerError, "report failed")
		return nil, false
	}
	logs, err := s.repo.LogsBetween(ctx, start, end)
	if err != nil {
		detail(c, http.StatusInternalServerError, "report failed")
		return nil, false
	}
	return report.BuildDaily(students, logs, s.loc), true
}

func (s *Server) dailyReport(c *gin.Context) {
	day, _, ok := s.parseReportDate(c, false)
	if !ok {
		return
	}
	rows, ok := s.buildDailyReport(c, day)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (s *Server) downloadDailyReport(c *gin.Context) {
	day, dateStr, ok := s.parseReportDate(c, false)
	if !ok {
		return
	}
	rows, ok := s.buildDailyReport(c, day)
	if !ok {
		return
	}

	data, err := report.DailyCSV(dateStr, rows)
	if err != nil {
		detail(c, http.StatusInternalServerError, "csv failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="Attendance_Report_%s.csv"`, dateStr))
	c.Data(http.StatusOK, "text/csv", data)
}

// downloadWeeklyReport exports every student's trailing 7-day window ending
// on ?date= (default today).
func (s *Server) downloadWeeklyReport(c *gin.Context) {
	day, dateStr, ok := s.parseReportDate(c, true)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		detail(c, http.StatusInternalServerError, "report failed")
		return
	}

	histories := make(map[string][]model.AttendanceLog, len(students))
	for _, st := range students {
		logs, err := s.repo.HistoryByStudent(ctx, st.ID, 30)
		if err != nil {
			detail(c, http.StatusInternalServerError, "report failed")
			return
		}
		histories[st.ID] = logs
	}

	rows := report.BuildWeekly(students, histories, day)
	data, err := report.WeeklyCSV(rows)
	if err != nil {
		detail(c, http.StatusInternalServerError, "csv failed")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="Weekly_Report_%s.csv"`, dateStr))
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) listStudents(c *gin.Context) {
	students, err := s.repo.ListStudents(c.Request.Context())
	if err != nil {
		detail(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) studentHistory(c *gin.Context) {
	logs, err := s.repo.HistoryByStudent(c.Request.Context(), c.Param("id"), 365)
	if err != nil {
		detail(c, http.StatusInternalServerError, "history lookup failed")
		return
	}
	if logs == nil {
		logs = []model.AttendanceLog{}
	}
	c.JSON(http.StatusOK, logs)
}

type adminRemarkRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Remark    string `json:"remark" binding:"required"`
}

func (s *Server) adminRemark(c *gin.Context) {
	var req adminRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.svc.UpsertRemark(c.Request.Context(), req.StudentID, req.Date, req.Remark); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Remark updated successfully"})
}

func (s *Server) toggleStudentStatus(c *gin.Context) {
	id := c.Param("id")
	active := c.Query("is_active") == "true"

	ctx := c.Request.Context()
	student, err := s.repo.StudentByID(ctx, id)
	if err != nil {
		detail(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	if student == nil {
		detail(c, http.StatusNotFound, "Student not found")
		return
	}
	if err := s.repo.SetStudentActive(ctx, id, active); err != nil {
		detail(c, http.StatusInternalServerError, "update failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "is_active": active})
}
