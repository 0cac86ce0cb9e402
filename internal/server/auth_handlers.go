package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Tariqai1/student-productivity-app/internal/auth"
	"github.com/Tariqai1/student-productivity-app/internal/model"
)

const resetTokenTTL = 30 * time.Minute

// login exchanges form-encoded credentials for a bearer token. The
// env-configured admin pair short-circuits without touching the database.
func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	if username == "" || password == "" {
		detail(c, http.StatusBadRequest, "username and password required")
		return
	}

	if s.cfg.AdminPass != "" && username == s.cfg.AdminUser && password == s.cfg.AdminPass {
		token, _, err := auth.Issue("admin", model.RoleAdmin, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
		if err != nil {
			detail(c, http.StatusInternalServerError, "token issue failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "role": model.RoleAdmin})
		return
	}

	student, hash, err := s.repo.StudentByUsername(c.Request.Context(), username)
	if err != nil {
		s.log.Error().Err(err).Msg("login lookup failed")
		detail(c, http.StatusInternalServerError, "login failed")
		return
	}
	if student == nil || !auth.CheckPassword(password, hash) {
		detail(c, http.StatusBadRequest, "Incorrect username or password")
		return
	}
	if !student.IsActive {
		detail(c, http.StatusForbidden, "Account is deactivated. Contact Admin.")
		return
	}

	token, _, err := auth.Issue(student.ID, student.Role, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.AccessTTL)
	if err != nil {
		detail(c, http.StatusInternalServerError, "token issue failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer", "role": student.Role})
}

type registerRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Course   string `json:"course"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	if existing, _, err := s.repo.StudentByUsername(ctx, req.Username); err != nil {
		detail(c, http.StatusInternalServerError, "registration failed")
		return
	} else if existing != nil {
		detail(c, http.StatusBadRequest, "Username already taken")
		return
	}
	if existing, err := s.repo.StudentByEmail(ctx, req.Email); err != nil {
		detail(c, http.StatusInternalServerError, "registration failed")
		return
	} else if existing != nil {
		detail(c, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		detail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	_, err = s.repo.CreateStudent(ctx, model.Student{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Course:   req.Course,
		Role:     model.RoleStudent,
	}, hash)
	if err != nil {
		s.log.Error().Err(err).Str("username", req.Username).Msg("create student failed")
		detail(c, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Student registered successfully"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// forgotPassword issues a 30-minute reset token and mails a link. Unknown
// emails get the same success message so account existence is not probeable.
func (s *Server) forgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	student, err := s.repo.StudentByEmail(ctx, req.Email)
	if err != nil {
		detail(c, http.StatusInternalServerError, "request failed")
		return
	}
	if student == nil {
		c.JSON(http.StatusOK, gin.H{"message": "If this email is registered, you will receive a reset link."})
		return
	}

	token := uuid.NewString()
	if err := s.redis.SaveResetToken(ctx, token, req.Email, resetTokenTTL); err != nil {
		s.log.Error().Err(err).Msg("save reset token failed")
		detail(c, http.StatusInternalServerError, "request failed")
		return
	}

	if err := s.mail.SendResetLink(req.Email, token); err != nil {
		s.log.Error().Err(err).Msg("reset mail failed")
		detail(c, http.StatusInternalServerError, "Failed to send email. Check Server Logs.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset link sent to your email."})
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

func (s *Server) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	email, err := s.redis.ConsumeResetToken(ctx, req.Token)
	if err == redis.Nil {
		detail(c, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	if err != nil {
		detail(c, http.StatusInternalServerError, "reset failed")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		detail(c, http.StatusInternalServerError, "reset failed")
		return
	}
	if err := s.repo.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		s.log.Error().Err(err).Msg("password update failed")
		detail(c, http.StatusInternalServerError, "reset failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully. Login now."})
}
