package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type ContentHandler struct {
	svc services.ContentService
}

func NewContentHandler(svc services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// GET /api/students/:id/catalog
func (h *ContentHandler) GetCatalog(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	snapshot, err := h.svc.GetCatalog(c.Request.Context(), nil, studentID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, snapshot)
}

// POST /api/students/:id/catalog/refresh
func (h *ContentHandler) RefreshCatalog(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	h.svc.InvalidateCatalog(c.Request.Context(), studentID)
	snapshot, err := h.svc.GetCatalog(c.Request.Context(), nil, studentID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, snapshot)
}
