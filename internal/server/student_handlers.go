package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Tariqai1/student-productivity-app/internal/attendance"
	"github.com/Tariqai1/student-productivity-app/internal/auth"
	"github.com/Tariqai1/student-productivity-app/internal/model"
	"github.com/Tariqai1/student-productivity-app/internal/uploads"
)

// myProfile returns the caller's account. The admin credential pair has no
// database row, so it gets a synthetic profile.
func (s *Server) myProfile(c *gin.Context) {
	claims := auth.ClaimsFrom(c)
	if claims.Role == model.RoleAdmin {
		c.JSON(http.StatusOK, model.Student{
			ID:       "admin",
			Username: s.cfg.AdminUser,
			FullName: "Administrator",
			Role:     model.RoleAdmin,
			IsActive: true,
		})
		return
	}

	student, err := s.repo.StudentByID(c.Request.Context(), claims.Subject)
	if err != nil {
		detail(c, http.StatusInternalServerError, "profile lookup failed")
		return
	}
	if student == nil {
		detail(c, http.StatusNotFound, "Student not found")
		return
	}
	c.JSON(http.StatusOK, student)
}

type profileUpdateRequest struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Course     *string `json:"course"`
	MentorName *string `json:"mentor_name"`
}

func (s *Server) updateMyProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.FullName == nil && req.Phone == nil && req.Address == nil && req.Course == nil && req.MentorName == nil {
		detail(c, http.StatusBadRequest, "No valid fields provided for update")
		return
	}

	claims := auth.ClaimsFrom(c)
	err := s.repo.UpdateProfile(c.Request.Context(), claims.Subject, attendance.ProfileUpdate{
		FullName:   req.FullName,
		Phone:      req.Phone,
		Address:    req.Address,
		Course:     req.Course,
		MentorName: req.MentorName,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("profile update failed")
		detail(c, http.StatusInternalServerError, "update failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// readUploadedFile pulls the multipart "file" field and enforces the size
// and type limits shared by photo and proof uploads.
func (s *Server) readUploadedFile(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "file field required")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, uploads.MaxFileSize+1))
	if err != nil {
		detail(c, http.StatusInternalServerError, "read file failed")
		return nil, "", false
	}
	if err := uploads.ValidateFile(data, header.Filename); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	return data, header.Filename, true
}

func (s *Server) uploadPhoto(c *gin.Context) {
	data, filename, ok := s.readUploadedFile(c)
	if !ok {
		return
	}

	url, err := s.uploader.Upload(data, filename, "images")
	if err != nil {
		s.log.Error().Err(err).Msg("photo upload failed")
		detail(c, http.StatusBadGateway, "Failed to save image")
		return
	}

	claims := auth.ClaimsFrom(c)
	if err := s.repo.SetStudentImage(c.Request.Context(), claims.Subject, url); err != nil {
		detail(c, http.StatusInternalServerError, "Failed to save image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo uploaded!", "image_url": url})
}

type remarkRequest struct {
	Date   string `json:"date" binding:"required"`
	Remark string `json:"remark" binding:"required"`
}

// myRemark lets a student annotate a date, e.g. with a sick-leave reason.
func (s *Server) myRemark(c *gin.Context) {
	var req remarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	claims := auth.ClaimsFrom(c)
	if err := s.svc.UpsertRemark(c.Request.Context(), claims.Subject, req.Date, req.Remark); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Remark added successfully"})
}
