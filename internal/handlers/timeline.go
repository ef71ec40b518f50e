package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/services"
)

type TimelineHandler struct {
	svc services.TimelineService
}

func NewTimelineHandler(svc services.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: svc}
}

// GET /api/students/:id/timeline?date=YYYY-MM-DD
func (h *TimelineHandler) GetDayTimeline(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	date := c.Query("date")
	if date == "" {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("date query parameter is required"))
		return
	}
	items, err := h.svc.GetDayTimeline(c.Request.Context(), studentID, date)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, gin.H{"items": items})
}

// POST /api/students/:id/timeline/reorder
func (h *TimelineHandler) Reorder(c *gin.Context) {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	var body struct {
		Date       string   `json:"date"`
		OrderedIDs []string `json:"ordered_ids"`
		MovedID    string   `json:"moved_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, err)
		return
	}
	if body.Date == "" || body.MovedID == "" || len(body.OrderedIDs) == 0 {
		RespondError(c, http.StatusBadRequest, apierr.CodeBadRequest, fmt.Errorf("date, moved_id and ordered_ids are required"))
		return
	}
	summary, err := h.svc.Reorder(c.Request.Context(), studentID, body.Date, body.OrderedIDs, body.MovedID)
	if err != nil {
		RespondAPIError(c, err)
		return
	}
	RespondOK(c, summary)
}
