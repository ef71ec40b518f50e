package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type StudentHandler struct {
	svc services.StudentService
}

func NewStudentHandler(svc services.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

// POST /api/students
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var body struct {
		Name         string `json:"name"`
		Grade        string `json:"grade"`
		StudentLevel string `json:"student_level"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	student, err := h.svc.Create(c.Request.Context(), body.Name, body.Grade, body.StudentLevel)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"student": student})
}

// GET /api/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	student, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"student": student})
}
