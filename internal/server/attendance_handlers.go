package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Tariqai1/student-productivity-app/internal/attendance"
	"github.com/Tariqai1/student-productivity-app/internal/auth"
	"github.com/Tariqai1/student-productivity-app/internal/model"
	"github.com/Tariqai1/student-productivity-app/internal/timeline"
)

func (s *Server) checkIn(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	now := time.Now().In(s.loc)

	entry, err := s.svc.CheckIn(c.Request.Context(), claims.Subject, now)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			detail(c, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Msg("check-in failed")
		detail(c, http.StatusInternalServerError, "Check-in failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Check-in Successful! Your productivity timer has started.",
		"time":    entry.Date.Format("03:04 PM"),
	})
}

type checkOutRequest struct {
	Tasks    string `json:"tasks" binding:"required"`
	ProofURL string `json:"proof_url"`
	Doubts   string `json:"doubts"`
}

func (s *Server) checkOut(c *gin.Context) {
	var req checkOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	claims := auth.ClaimsFrom(c)
	now := time.Now().In(s.loc)

	hours, err := s.svc.CheckOut(c.Request.Context(), claims.Subject, req.Tasks, req.ProofURL, req.Doubts, now)
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrNoActiveSession),
			errors.Is(err, attendance.ErrAlreadyCompleted),
			errors.Is(err, attendance.ErrTasksTooShort):
			detail(c, http.StatusBadRequest, err.Error())
		default:
			s.log.Error().Err(err).Msg("check-out failed")
			detail(c, http.StatusInternalServerError, "Check-out failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Session Ended! You focused for %g hours today.", hours),
		"duration": fmt.Sprintf("%g hrs", hours),
	})
}

func (s *Server) uploadProof(c *gin.Context) {
	data, filename, ok := s.readUploadedFile(c)
	if !ok {
		return
	}

	url, err := s.uploader.Upload(data, filename, "proofs")
	if err != nil {
		s.log.Error().Err(err).Msg("proof upload failed")
		detail(c, http.StatusBadGateway, "Failed to save file on server")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proof uploaded successfully!", "url": url})
}

func (s *Server) myHistory(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	logs, err := s.svc.History(c.Request.Context(), claims.Subject)
	if err != nil {
		detail(c, http.StatusInternalServerError, "history lookup failed")
		return
	}
	if logs == nil {
		logs = []model.AttendanceLog{}
	}
	c.JSON(http.StatusOK, logs)
}

// myPerformance returns analytics for the caller. An admin login has no
// attendance of its own and gets zeroed stats instead of an error.
func (s *Server) myPerformance(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims.Role == model.RoleAdmin {
		c.JSON(http.StatusOK, model.Performance{
			Today: model.PeriodStats{Status: "Admin View"},
		})
		return
	}
	s.performanceFor(c, claims.Subject)
}

func (s *Server) studentStats(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		detail(c, http.StatusBadRequest, "Invalid ID")
		return
	}
	s.performanceFor(c, id)
}

func (s *Server) performanceFor(c *gin.Context, studentID string) {
	logs, err := s.repo.HistoryByStudent(c.Request.Context(), studentID, 2000)
	if err != nil {
		detail(c, http.StatusInternalServerError, "analytics failed")
		return
	}
	c.JSON(http.StatusOK, timeline.Performance(logs, time.Now().In(s.loc)))
}
